package handlers

import (
	"fmt"

	"dojima-bot/commands"
	"dojima-bot/model"
	"dojima-bot/utils"
	"dojima-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// PrefixHandler changes and reports the per-guild command prefix.
type PrefixHandler struct {
	Store        database.PrefixStore
	Resolver     *commands.PrefixResolver
	Logs         utils.ChannelSender
	LogChannelID string
}

func (h *PrefixHandler) Descriptors() []*commands.Descriptor {
	return []*commands.Descriptor{
		{
			Name:        "set_prefix",
			Description: "Set the command prefix of this server",
			Category:    "Configuration",
			Usage:       "<prefix>",
			Kinds:       commands.KindPrefix,
			GuildOnly:   true,
			Permissions: discordgo.PermissionAdministrator,
			Handler:     h.SetPrefix,
		},
		{
			Name:        "prefix",
			Description: "Show the command prefix used here",
			Category:    "Configuration",
			Kinds:       commands.KindBoth,
			Handler:     h.ShowPrefix,
		},
	}
}

func (h *PrefixHandler) SetPrefix(c *commands.Context) error {
	prefix := c.Arg(0)
	if prefix == "" {
		return c.UsageError("a prefix is required")
	}
	if err := model.ValidatePrefix(prefix); err != nil {
		return err
	}
	guildID, err := snowflake.Parse(c.GuildID)
	if err != nil {
		return fmt.Errorf("%w: invalid guild id %q", model.ErrValidation, c.GuildID)
	}

	if err := h.Store.SetPrefix(c.Ctx, guildID, prefix); err != nil {
		return err
	}

	utils.Infof("Prefix of guild %s set to %q by %s", c.GuildID, prefix, c.Author.ID)
	if h.Logs != nil {
		utils.LogInfo(h.Logs, h.LogChannelID, "Prefix", "Set", fmt.Sprintf("Guild %s now uses `%s` (by <@%s>)", c.GuildID, prefix, c.Author.ID))
	}
	return c.Reply(fmt.Sprintf("✅ Prefix for this server set to `%s`", prefix))
}

func (h *PrefixHandler) ShowPrefix(c *commands.Context) error {
	prefix, custom := h.Resolver.ResolveDetailed(c.Ctx, c.GuildID)
	switch {
	case !c.InGuild():
		return c.Reply(fmt.Sprintf("In direct messages the prefix is `%s`", prefix))
	case custom:
		return c.Reply(fmt.Sprintf("The prefix of this server is `%s` (default `%s`)", prefix, h.Resolver.Default()))
	default:
		return c.Reply(fmt.Sprintf("This server uses the default prefix `%s`", prefix))
	}
}
