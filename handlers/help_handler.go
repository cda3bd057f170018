package handlers

import (
	"fmt"
	"strings"

	"dojima-bot/commands"
	"dojima-bot/model"
	"dojima-bot/paginator"

	"github.com/bwmarrin/discordgo"
)

const helpColor = 0x5865F2

// HelpHandler lists the command table as a paginated menu, one page per category.
type HelpHandler struct {
	// Registry is assigned once the table including help itself has been built.
	Registry *commands.Registry
	Resolver *commands.PrefixResolver
	Menu     *paginator.Menu
}

func (h *HelpHandler) Descriptors() []*commands.Descriptor {
	return []*commands.Descriptor{{
		Name:        "help",
		Description: "Show the available commands",
		Category:    "Info",
		Usage:       "[command]",
		Kinds:       commands.KindBoth,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "command", Description: "Show details of one command"},
		},
		Handler: h.Help,
	}}
}

func (h *HelpHandler) Help(c *commands.Context) error {
	prefix := c.Prefix
	if c.Kind == commands.KindSlash || strings.HasPrefix(prefix, "<@") {
		prefix = h.Resolver.Resolve(c.Ctx, c.GuildID)
	}

	if name := textArg(c, "command", 0); name != "" {
		cmd, ok := h.Registry.Lookup(strings.TrimPrefix(name, prefix))
		if !ok {
			return fmt.Errorf("%w: there is no command called %s", model.ErrValidation, name)
		}
		return c.ReplyComplex(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{commandEmbed(cmd, prefix)}}, c.Kind == commands.KindSlash)
	}

	pages := helpPages(h.Registry, prefix)
	return h.Menu.Run(c.Ctx, c.ID(), pages, func(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
		return c.ReplyComplex(&discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		}, c.Kind == commands.KindSlash)
	})
}

// helpPages renders one embed per command category.
func helpPages(reg *commands.Registry, prefix string) []*discordgo.MessageEmbed {
	names, grouped := reg.Categories()
	pages := make([]*discordgo.MessageEmbed, 0, len(names))
	for i, cat := range names {
		var b strings.Builder
		for _, cmd := range grouped[cat] {
			fmt.Fprintf(&b, "`%s` %s\n", invocation(cmd, prefix), cmd.Description)
		}
		pages = append(pages, &discordgo.MessageEmbed{
			Title:       "Help: " + cat,
			Description: b.String(),
			Color:       helpColor,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d · %shelp <command> for details", i+1, len(names), prefix),
			},
		})
	}
	return pages
}

func commandEmbed(cmd *commands.Descriptor, prefix string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       invocation(cmd, prefix),
		Description: cmd.Description,
		Color:       helpColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Invocation", Value: cmd.Kinds.String(), Inline: true},
		},
	}
	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Aliases", Value: strings.Join(cmd.Aliases, ", "), Inline: true})
	}
	if cmd.GuildOnly {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Scope", Value: "Servers only", Inline: true})
	}
	return embed
}

func invocation(cmd *commands.Descriptor, prefix string) string {
	p := prefix
	if !cmd.Kinds.Has(commands.KindPrefix) {
		p = "/"
	}
	return strings.TrimSpace(p + cmd.Name + " " + cmd.Usage)
}
