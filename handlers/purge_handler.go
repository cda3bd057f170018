package handlers

import (
	"fmt"
	"time"

	"dojima-bot/commands"
	"dojima-bot/scanner"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// PurgeHandler deletes recent messages of one user from the current channel.
type PurgeHandler struct {
	Deleter      *scanner.BulkFilterDeleter
	Max          int
	ConfirmDelay time.Duration
	Logs         utils.ChannelSender
	LogChannelID string
}

func (h *PurgeHandler) Descriptors() []*commands.Descriptor {
	minAmount := float64(1)
	return []*commands.Descriptor{{
		Name:        "purge",
		Description: "Delete the most recent messages of a user in this channel",
		Category:    "Moderation",
		Usage:       "<user> <amount>",
		Aliases:     []string{"clean", "clear", "bulkdel"},
		Kinds:       commands.KindBoth,
		GuildOnly:   true,
		Permissions: discordgo.PermissionManageMessages,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Whose messages to delete", Required: true},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "How many messages to delete", Required: true, MinValue: &minAmount, MaxValue: float64(h.Max)},
		},
		Handler: h.Purge,
	}}
}

func (h *PurgeHandler) Purge(c *commands.Context) error {
	// 1. Parse and validate arguments
	userID, ok := userArg(c)
	if !ok {
		return c.UsageError("a user mention or id is required")
	}
	amount, ok := intArg(c, "amount", 1)
	if !ok {
		return c.UsageError("the amount must be a number")
	}
	if amount < 1 || amount > h.Max {
		return c.UsageError(fmt.Sprintf("the amount must be between 1 and %d", h.Max))
	}
	before, err := snowflake.Parse(c.ID())
	if err != nil {
		return c.UsageError("cannot determine the starting message")
	}

	// 2. Fetching and deleting can take several requests
	if err := c.Defer(false); err != nil {
		utils.Warnf("Failed to defer purge in channel %s: %v", c.ChannelID, err)
	}

	// 3. Run the purge loop
	deleted, err := h.Deleter.Purge(c.ChannelID, before, userID, amount)
	utils.Infof("Purge by %s in channel %s: %d/%d messages of %s deleted", c.Author.ID, c.ChannelID, deleted, amount, userID)
	if h.Logs != nil && deleted > 0 {
		utils.LogInfo(h.Logs, h.LogChannelID, "Moderation", "Purge", fmt.Sprintf("<@%s> deleted %d messages of <@%s> in <#%s>", c.Author.ID, deleted, userID, c.ChannelID))
	}
	if err != nil {
		if h.Logs != nil {
			utils.LogWarn(h.Logs, h.LogChannelID, "Moderation", "Purge", fmt.Sprintf("Purge in <#%s> stopped: %v", c.ChannelID, err))
		}
		return fmt.Errorf("purge stopped after deleting %d messages: %w", deleted, err)
	}

	// 4. Report
	if err := c.Reply(fmt.Sprintf("🧹 Deleted %d messages from <@%s>", deleted, userID)); err != nil {
		return err
	}
	if h.ConfirmDelay > 0 {
		time.AfterFunc(h.ConfirmDelay, func() {
			if err := c.DeleteReply(); err != nil {
				utils.Debugf("Failed to remove purge confirmation in %s: %v", c.ChannelID, err)
			}
		})
	}
	return nil
}
