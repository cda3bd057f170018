package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DirectMessenger is the part of the session needed to message a user privately.
type DirectMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SendPrivateMessage opens the DM channel with a user and sends data to it.
func SendPrivateMessage(s DirectMessenger, userID string, data *discordgo.MessageSend) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("creating private channel with user %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSendComplex(channel.ID, data); err != nil {
		return fmt.Errorf("sending private message to user %s: %w", userID, err)
	}
	return nil
}

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
// Users who closed their DMs are common, so callers usually only log the error.
func SendPrivateEmbedMessage(s DirectMessenger, userID string, embed *discordgo.MessageEmbed) error {
	return SendPrivateMessage(s, userID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}
