// Package commands holds the command table and routes gateway events to command handlers.
package commands

import (
	"context"
	"fmt"
	"strings"

	"dojima-bot/model"

	"github.com/bwmarrin/discordgo"
)

// InvocationKind is a bit set of the ways a command can be invoked.
type InvocationKind uint8

const (
	KindSlash InvocationKind = 1 << iota
	KindPrefix

	KindBoth = KindSlash | KindPrefix
)

func (k InvocationKind) Has(other InvocationKind) bool { return k&other != 0 }

func (k InvocationKind) String() string {
	switch k {
	case KindSlash:
		return "slash"
	case KindPrefix:
		return "prefix"
	case KindBoth:
		return "slash+prefix"
	}
	return "none"
}

// HandlerFunc executes a matched command.
type HandlerFunc func(c *Context) error

// Descriptor is one entry of the command table. It is not modified after registration.
type Descriptor struct {
	Name        string
	Description string
	Category    string
	Usage       string
	Aliases     []string
	Kinds       InvocationKind
	GuildOnly   bool
	OwnerOnly   bool
	// Permissions the invoker needs in the channel, zero for none.
	Permissions int64
	Options     []*discordgo.ApplicationCommandOption
	Handler     HandlerFunc
}

// Session is the subset of *discordgo.Session the router and command contexts use.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// Context carries one invocation through a handler.
type Context struct {
	Ctx     context.Context
	Session Session
	Kind    InvocationKind
	Command *Descriptor

	GuildID     string
	ChannelID   string
	Author      *discordgo.User
	Member      *discordgo.Member
	Message     *discordgo.Message
	Interaction *discordgo.Interaction

	// Prefix is the prefix the message matched; empty for slash commands.
	Prefix  string
	Args    []string
	RawArgs string
	// Permissions of the invoker in the channel, resolved only when the command requires any.
	Permissions int64

	responded bool
	deferred  bool
	lastReply *discordgo.Message
	// lastIsOriginal is set when the last reply was the interaction's own response.
	lastIsOriginal bool
}

// ID returns the id of the triggering message or interaction.
func (c *Context) ID() string {
	if c.Interaction != nil {
		return c.Interaction.ID
	}
	if c.Message != nil {
		return c.Message.ID
	}
	return ""
}

// InGuild reports whether the invocation came from a guild channel.
func (c *Context) InGuild() bool { return c.GuildID != "" }

// Defer acknowledges a slash command so a slow handler can reply later. It is a no-op for
// prefix invocations.
func (c *Context) Defer(ephemeral bool) error {
	if c.Interaction == nil || c.responded {
		return nil
	}
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := c.Session.InteractionRespond(c.Interaction, resp); err != nil {
		return err
	}
	c.responded = true
	c.deferred = true
	return nil
}

func (c *Context) Reply(content string) error {
	return c.ReplyComplex(&discordgo.MessageSend{Content: content}, false)
}

// ReplyEphemeral replies visibly only to the invoker when the platform allows it.
func (c *Context) ReplyEphemeral(content string) error {
	return c.ReplyComplex(&discordgo.MessageSend{Content: content}, true)
}

func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return c.ReplyComplex(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}, false)
}

// ReplyComplex sends data as the answer to the invocation. Interactions are answered with the
// initial response, then by editing a deferred response, then with followups.
func (c *Context) ReplyComplex(data *discordgo.MessageSend, ephemeral bool) error {
	if c.Interaction == nil {
		if c.Message != nil {
			data.Reference = c.Message.Reference()
			data.AllowedMentions = &discordgo.MessageAllowedMentions{}
		}
		msg, err := c.Session.ChannelMessageSendComplex(c.ChannelID, data)
		if err != nil {
			return err
		}
		c.lastReply = msg
		return nil
	}

	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	switch {
	case !c.responded:
		err := c.Session.InteractionRespond(c.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         data.Content,
				Embeds:          data.Embeds,
				Components:      data.Components,
				AllowedMentions: data.AllowedMentions,
				Flags:           flags,
			},
		})
		if err != nil {
			return err
		}
		c.responded = true
		c.lastReply = nil
		c.lastIsOriginal = true
	case c.deferred:
		edit := &discordgo.WebhookEdit{}
		if data.Content != "" {
			edit.Content = &data.Content
		}
		if data.Embeds != nil {
			edit.Embeds = &data.Embeds
		}
		if data.Components != nil {
			edit.Components = &data.Components
		}
		edit.AllowedMentions = data.AllowedMentions
		msg, err := c.Session.InteractionResponseEdit(c.Interaction, edit)
		if err != nil {
			return err
		}
		c.deferred = false
		c.lastReply = msg
		c.lastIsOriginal = true
	default:
		msg, err := c.Session.FollowupMessageCreate(c.Interaction, true, &discordgo.WebhookParams{
			Content:         data.Content,
			Embeds:          data.Embeds,
			Components:      data.Components,
			AllowedMentions: data.AllowedMentions,
			Flags:           flags,
		})
		if err != nil {
			return err
		}
		c.lastReply = msg
		c.lastIsOriginal = false
	}
	return nil
}

// DeleteReply removes the last message sent through the context, if one is known.
func (c *Context) DeleteReply() error {
	if c.Interaction != nil && c.lastIsOriginal {
		return c.Session.InteractionResponseDelete(c.Interaction)
	}
	if c.lastReply == nil {
		return nil
	}
	return c.Session.ChannelMessageDelete(c.lastReply.ChannelID, c.lastReply.ID)
}

// Option returns the named slash option, or nil.
func (c *Context) Option(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if c.Interaction == nil || c.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	for _, opt := range c.Interaction.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

// Arg returns the positional argument at index n, or an empty string.
func (c *Context) Arg(n int) string {
	if n < 0 || n >= len(c.Args) {
		return ""
	}
	return c.Args[n]
}

// UsageError builds the validation error shown when arguments are missing or malformed.
func (c *Context) UsageError(reason string) error {
	usage := c.Command.Name
	if c.Command.Usage != "" {
		usage += " " + c.Command.Usage
	}
	prefix := c.Prefix
	if c.Kind == KindSlash {
		prefix = "/"
	}
	return fmt.Errorf("%w: %s. Usage: `%s%s`", model.ErrValidation, reason, prefix, strings.TrimSpace(usage))
}
