package handlers

import (
	"fmt"
	"strings"
	"time"

	"dojima-bot/commands"
	"dojima-bot/model"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// CommandSyncer re-registers the slash commands and returns how many were registered.
type CommandSyncer interface {
	RegisterCommands() (int, error)
}

// GeneralHandler holds the small informational and utility commands.
type GeneralHandler struct {
	Resolver  *commands.PrefixResolver
	Latency   func() time.Duration
	Uptime    func() time.Duration
	Syncer    CommandSyncer
	Version   string
	// Direct delivers echo messages addressed to a user.
	Direct utils.DirectMessenger
}

func (h *GeneralHandler) Descriptors() []*commands.Descriptor {
	return []*commands.Descriptor{
		{
			Name:        "ping",
			Description: "Check the bot's latency",
			Category:    "Info",
			Kinds:       commands.KindBoth,
			Handler:     h.Ping,
		},
		{
			Name:        "about",
			Description: "Information about this bot",
			Category:    "Info",
			Kinds:       commands.KindBoth,
			Handler:     h.About,
		},
		{
			Name:        "say",
			Description: "Make the bot say something",
			Category:    "Utility",
			Usage:       "<message>",
			Kinds:       commands.KindBoth,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "What to say", Required: true},
			},
			Handler: h.Say,
		},
		{
			Name:        "echo",
			Description: "Relay a message, reply to a message or message a user privately",
			Category:    "Owner",
			Usage:       "[reply <message id> | dm <user>] <message>",
			Kinds:       commands.KindBoth,
			OwnerOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Message to relay"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "messageid", Description: "Message to reply to"},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to message privately"},
				{Type: discordgo.ApplicationCommandOptionAttachment, Name: "attachment", Description: "Attachment to include"},
			},
			Handler: h.Echo,
		},
		{
			Name:        "sync",
			Description: "Register the slash commands again",
			Category:    "Owner",
			Kinds:       commands.KindBoth,
			OwnerOnly:   true,
			Handler:     h.Sync,
		},
	}
}

func (h *GeneralHandler) Ping(c *commands.Context) error {
	start := time.Now()
	if err := c.Reply("🏓 Pong!"); err != nil {
		return err
	}
	rtt := time.Since(start)

	var heartbeat time.Duration
	if h.Latency != nil {
		heartbeat = h.Latency()
	}
	var uptime time.Duration
	if h.Uptime != nil {
		uptime = h.Uptime()
	}
	return c.Reply(fmt.Sprintf("Heartbeat: %s · API: %s · Uptime: %s",
		heartbeat.Round(time.Millisecond), rtt.Round(time.Millisecond), uptime.Round(time.Second)))
}

func (h *GeneralHandler) About(c *commands.Context) error {
	prefix := h.Resolver.Resolve(c.Ctx, c.GuildID)
	return c.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "dojima-bot",
		Description: "A moderation and utility bot with per-server prefixes and slash commands.",
		Color:       helpColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prefix", Value: "`" + prefix + "`", Inline: true},
			{Name: "Version", Value: h.Version, Inline: true},
			{Name: "Help", Value: fmt.Sprintf("`%shelp` or `/help`", prefix), Inline: true},
		},
	})
}

func (h *GeneralHandler) Say(c *commands.Context) error {
	text := textArg(c, "message", 0)
	if text == "" {
		return c.UsageError("there is nothing to say")
	}
	if c.Kind == commands.KindSlash {
		return c.ReplyComplex(&discordgo.MessageSend{Content: text, AllowedMentions: &discordgo.MessageAllowedMentions{}}, false)
	}

	// The relayed text replaces the invoking message
	if err := c.Session.ChannelMessageDelete(c.ChannelID, c.Message.ID); err != nil {
		utils.Debugf("Failed to delete say invocation %s: %v", c.Message.ID, err)
	}
	_, err := c.Session.ChannelMessageSendComplex(c.ChannelID, &discordgo.MessageSend{
		Content:         text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	return err
}

func (h *GeneralHandler) Sync(c *commands.Context) error {
	if err := c.Defer(true); err != nil {
		utils.Warnf("Failed to defer sync: %v", err)
	}
	n, err := h.Syncer.RegisterCommands()
	if err != nil {
		return err
	}
	return c.ReplyEphemeral(fmt.Sprintf("✅ Registered %d slash commands", n))
}

// echoTarget is where and what an echo invocation sends.
type echoTarget struct {
	text       string
	replyTo    string
	userID     string
	attachment string
}

func parseEcho(c *commands.Context) (echoTarget, error) {
	var t echoTarget
	if c.Kind == commands.KindSlash {
		t.text = textArg(c, "message", 0)
		if opt := c.Option("messageid"); opt != nil {
			id, err := snowflake.Parse(strings.TrimSpace(opt.StringValue()))
			if err != nil {
				return t, c.UsageError("the message id is not valid")
			}
			t.replyTo = id.String()
		}
		if opt := c.Option("user"); opt != nil {
			t.userID = opt.UserValue(nil).ID
		}
		if opt := c.Option("attachment"); opt != nil {
			if resolved := c.Interaction.ApplicationCommandData().Resolved; resolved != nil {
				if a, ok := resolved.Attachments[fmt.Sprint(opt.Value)]; ok {
					t.attachment = a.URL
				}
			}
		}
		return t, nil
	}

	switch c.Arg(0) {
	case "reply":
		id, err := snowflake.Parse(c.Arg(1))
		if err != nil {
			return t, c.UsageError("the message id is not valid")
		}
		t.replyTo = id.String()
		t.text = textArg(c, "message", 2)
	case "dm":
		userID, ok := parseUserID(c.Arg(1))
		if !ok {
			return t, c.UsageError("a user mention or id is required")
		}
		t.userID = userID
		t.text = textArg(c, "message", 2)
	default:
		t.text = c.RawArgs
	}
	if len(c.Message.Attachments) > 0 {
		t.attachment = c.Message.Attachments[0].URL
	}
	return t, nil
}

// Echo relays a message to the channel, as a reply to another message when a message id and
// text are given, or privately to a user.
func (h *GeneralHandler) Echo(c *commands.Context) error {
	t, err := parseEcho(c)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(t.text + "\n" + t.attachment)
	if content == "" {
		return c.UsageError("there is nothing to echo")
	}

	if c.Kind == commands.KindPrefix {
		if err := c.Session.ChannelMessageDelete(c.ChannelID, c.Message.ID); err != nil {
			utils.Debugf("Failed to delete echo invocation %s: %v", c.Message.ID, err)
		}
	}

	data := &discordgo.MessageSend{Content: content, AllowedMentions: &discordgo.MessageAllowedMentions{}}
	switch {
	case t.replyTo != "" && t.text != "":
		data.Reference = &discordgo.MessageReference{MessageID: t.replyTo, ChannelID: c.ChannelID, GuildID: c.GuildID}
		data.AllowedMentions.RepliedUser = true
		_, err = c.Session.ChannelMessageSendComplex(c.ChannelID, data)
	case t.userID != "":
		if h.Direct == nil {
			return fmt.Errorf("%w: direct messages are not available", model.ErrExternalAPI)
		}
		err = utils.SendPrivateMessage(h.Direct, t.userID, data)
	default:
		_, err = c.Session.ChannelMessageSendComplex(c.ChannelID, data)
	}
	if err != nil {
		return fmt.Errorf("%w: echo: %v", model.ErrExternalAPI, err)
	}

	utils.Infof("Echo by %s in channel %s", c.Author.ID, c.ChannelID)
	if c.Kind == commands.KindSlash {
		return c.ReplyEphemeral("Sent!")
	}
	return nil
}
