package utils

import (
	"github.com/bwmarrin/discordgo"
)

// CreatePaginationComponents creates the previous/next button row of a menu.
func CreatePaginationComponents(prevID, nextID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: prevID,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: nextID,
				},
			},
		},
	}
}
