package handlers

import (
	"fmt"

	"dojima-bot/commands"
	"dojima-bot/model"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// ModerationAPI is the part of the session used to ban, unban and kick members.
type ModerationAPI interface {
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
}

type ModerationHandler struct {
	API ModerationAPI
	// Notify, when set, tells banned and kicked users why before the action is taken.
	Notify       utils.DirectMessenger
	Logs         utils.ChannelSender
	LogChannelID string
}

func (h *ModerationHandler) Descriptors() []*commands.Descriptor {
	userOpt := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Target member", Required: true}
	reasonOpt := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Shown in the audit log"}
	return []*commands.Descriptor{
		{
			Name:        "ban",
			Description: "Ban a user from this server",
			Category:    "Moderation",
			Usage:       "<user> [reason]",
			Kinds:       commands.KindBoth,
			GuildOnly:   true,
			Permissions: discordgo.PermissionBanMembers,
			Options:     []*discordgo.ApplicationCommandOption{userOpt, reasonOpt},
			Handler:     h.Ban,
		},
		{
			Name:        "unban",
			Description: "Lift the ban of a user",
			Category:    "Moderation",
			Usage:       "<user>",
			Kinds:       commands.KindBoth,
			GuildOnly:   true,
			Permissions: discordgo.PermissionBanMembers,
			Options:     []*discordgo.ApplicationCommandOption{userOpt},
			Handler:     h.Unban,
		},
		{
			Name:        "kick",
			Description: "Kick a member from this server",
			Category:    "Moderation",
			Usage:       "<user> [reason]",
			Kinds:       commands.KindBoth,
			GuildOnly:   true,
			Permissions: discordgo.PermissionKickMembers,
			Options:     []*discordgo.ApplicationCommandOption{userOpt, reasonOpt},
			Handler:     h.Kick,
		},
	}
}

func (h *ModerationHandler) target(c *commands.Context) (string, error) {
	userID, ok := userArg(c)
	if !ok {
		return "", c.UsageError("a user mention or id is required")
	}
	if userID == c.Author.ID {
		return "", fmt.Errorf("%w: you cannot use %s on yourself", model.ErrValidation, c.Command.Name)
	}
	return userID, nil
}

func auditReason(c *commands.Context) string {
	reason := textArg(c, "reason", 1)
	if reason == "" {
		reason = "No reason given"
	}
	return fmt.Sprintf("%s (by %s)", reason, c.Author.Username)
}

func (h *ModerationHandler) Ban(c *commands.Context) error {
	userID, err := h.target(c)
	if err != nil {
		return err
	}
	reason := auditReason(c)
	h.notify(c, userID, "banned", reason)
	if err := h.API.GuildBanCreateWithReason(c.GuildID, userID, reason, 0); err != nil {
		return fmt.Errorf("%w: banning %s: %v", model.ErrExternalAPI, userID, err)
	}
	h.audit(c, "Ban", userID, reason)
	return c.Reply(fmt.Sprintf("🔨 Banned <@%s>", userID))
}

func (h *ModerationHandler) Unban(c *commands.Context) error {
	userID, err := h.target(c)
	if err != nil {
		return err
	}
	if err := h.API.GuildBanDelete(c.GuildID, userID); err != nil {
		return fmt.Errorf("%w: unbanning %s: %v", model.ErrExternalAPI, userID, err)
	}
	h.audit(c, "Unban", userID, "")
	return c.Reply(fmt.Sprintf("✅ Unbanned <@%s>", userID))
}

func (h *ModerationHandler) Kick(c *commands.Context) error {
	userID, err := h.target(c)
	if err != nil {
		return err
	}
	reason := auditReason(c)
	h.notify(c, userID, "kicked", reason)
	if err := h.API.GuildMemberDeleteWithReason(c.GuildID, userID, reason); err != nil {
		return fmt.Errorf("%w: kicking %s: %v", model.ErrExternalAPI, userID, err)
	}
	h.audit(c, "Kick", userID, reason)
	return c.Reply(fmt.Sprintf("👢 Kicked <@%s>", userID))
}

func (h *ModerationHandler) notify(c *commands.Context, userID, action, reason string) {
	if h.Notify == nil {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("You have been %s", action),
		Color: 15158332, // Red
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server", Value: c.GuildID, Inline: true},
			{Name: "Reason", Value: reason},
		},
	}
	if err := utils.SendPrivateEmbedMessage(h.Notify, userID, embed); err != nil {
		utils.Debugf("Could not notify %s: %v", userID, err)
	}
}

func (h *ModerationHandler) audit(c *commands.Context, action, userID, reason string) {
	utils.Infof("%s of %s in guild %s by %s", action, userID, c.GuildID, c.Author.ID)
	if h.Logs == nil {
		return
	}
	details := fmt.Sprintf("<@%s> → <@%s>", c.Author.ID, userID)
	if reason != "" {
		details += "\n" + reason
	}
	utils.LogInfo(h.Logs, h.LogChannelID, "Moderation", action, details)
}
