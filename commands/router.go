package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"dojima-bot/model"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// ComponentDispatcher receives button presses that are not commands.
type ComponentDispatcher interface {
	Dispatch(i *discordgo.Interaction) bool
}

// Event is one inbound gateway event. Exactly one field is set.
type Event struct {
	Message     *discordgo.Message
	Interaction *discordgo.Interaction
}

// RouterOptions tunes matching and the checks applied before a handler runs.
type RouterOptions struct {
	MentionAsPrefix bool
	IsOwner         func(userID string) bool
	Cooldowns       *Cooldowns
	Components      ComponentDispatcher
}

// Router matches events against the registry and runs the selected handler.
type Router struct {
	registry *Registry
	resolver *PrefixResolver
	session  Session
	opts     RouterOptions

	botUserID atomic.Value
}

func NewRouter(registry *Registry, resolver *PrefixResolver, session Session, opts RouterOptions) *Router {
	if opts.IsOwner == nil {
		opts.IsOwner = func(string) bool { return false }
	}
	r := &Router{
		registry: registry,
		resolver: resolver,
		session:  session,
		opts:     opts,
	}
	r.botUserID.Store("")
	return r
}

// SetBotUserID records the bot's own user id, used to recognise mention prefixes.
func (r *Router) SetBotUserID(id string) { r.botUserID.Store(id) }

func (r *Router) Registry() *Registry { return r.registry }

func (r *Router) Resolver() *PrefixResolver { return r.resolver }

// Dispatch routes ev. Events that are not commands return nil. Errors from checks and
// handlers have already been reported to the invoker when they are returned.
func (r *Router) Dispatch(ctx context.Context, ev Event) error {
	switch {
	case ev.Message != nil:
		return r.dispatchMessage(ctx, ev.Message)
	case ev.Interaction != nil:
		return r.dispatchInteraction(ctx, ev.Interaction)
	}
	return nil
}

func (r *Router) dispatchMessage(ctx context.Context, m *discordgo.Message) error {
	if m.Author == nil || m.Author.Bot {
		return nil
	}
	prefix := r.resolver.Resolve(ctx, m.GuildID)
	rest, matched, ok := stripPrefix(m.Content, prefix, r.botUserID.Load().(string), r.opts.MentionAsPrefix)
	if !ok {
		return nil
	}
	name, raw := splitCommand(rest)
	if name == "" {
		return nil
	}
	cmd, ok := r.registry.Lookup(name)
	if !ok || !cmd.Kinds.Has(KindPrefix) {
		return nil
	}

	c := &Context{
		Ctx:       ctx,
		Session:   r.session,
		Kind:      KindPrefix,
		Command:   cmd,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Author:    m.Author,
		Member:    m.Member,
		Message:   m,
		Prefix:    matched,
		Args:      strings.Fields(raw),
		RawArgs:   raw,
	}
	return r.run(c)
}

func (r *Router) dispatchInteraction(ctx context.Context, i *discordgo.Interaction) error {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		if r.opts.Components == nil || !r.opts.Components.Dispatch(i) {
			utils.Debugf("Unclaimed component interaction %s", i.MessageComponentData().CustomID)
		}
		return nil
	case discordgo.InteractionApplicationCommand:
	default:
		return nil
	}

	cmd, ok := r.registry.Lookup(i.ApplicationCommandData().Name)
	if !ok || !cmd.Kinds.Has(KindSlash) {
		utils.Warnf("Received unknown slash command %q", i.ApplicationCommandData().Name)
		return nil
	}

	author := i.User
	if i.Member != nil && i.Member.User != nil {
		author = i.Member.User
	}
	c := &Context{
		Ctx:         ctx,
		Session:     r.session,
		Kind:        KindSlash,
		Command:     cmd,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Author:      author,
		Member:      i.Member,
		Interaction: i,
	}
	return r.run(c)
}

func (r *Router) run(c *Context) error {
	if c.Author == nil {
		return nil
	}
	if err := r.check(c); err != nil {
		if errors.Is(err, errCooldown) {
			if replyErr := c.ReplyEphemeral("⏳ You are using commands too quickly. Try again in a moment."); replyErr != nil {
				utils.Warnf("Failed to send cooldown notice to %s: %v", c.Author.ID, replyErr)
			}
			return nil
		}
		r.report(c, err)
		return err
	}
	if err := c.Command.Handler(c); err != nil {
		r.report(c, err)
		return err
	}
	return nil
}

var errCooldown = errors.New("command cooldown")

// check evaluates guild scope, cooldown, ownership and permissions in that order.
func (r *Router) check(c *Context) error {
	if c.Command.GuildOnly && !c.InGuild() {
		return model.ErrGuildOnly
	}
	if !r.opts.Cooldowns.Allow(c.Author.ID) {
		return errCooldown
	}
	if c.Command.OwnerOnly && !r.opts.IsOwner(c.Author.ID) {
		return fmt.Errorf("%w: only the bot owners can use %s", model.ErrPermissionDenied, c.Command.Name)
	}
	if c.Command.Permissions == 0 {
		return nil
	}
	if !c.InGuild() {
		return model.ErrGuildOnly
	}
	perms, err := r.permissions(c)
	if err != nil {
		return err
	}
	c.Permissions = perms
	if !utils.HasPermissions(perms, c.Command.Permissions) {
		return fmt.Errorf("%w: you need the %s permission to use %s", model.ErrPermissionDenied, utils.PermissionNames(c.Command.Permissions), c.Command.Name)
	}
	return nil
}

func (r *Router) permissions(c *Context) (int64, error) {
	if c.Interaction != nil && c.Member != nil {
		return c.Member.Permissions, nil
	}
	perms, err := r.session.UserChannelPermissions(c.Author.ID, c.ChannelID)
	if err != nil {
		return 0, fmt.Errorf("%w: resolving permissions of %s: %v", model.ErrExternalAPI, c.Author.ID, err)
	}
	return perms, nil
}

// report shows err to the invoker and logs it. Rejections are logged at warn level.
func (r *Router) report(c *Context, err error) {
	switch {
	case errors.Is(err, model.ErrPermissionDenied), errors.Is(err, model.ErrValidation):
		utils.Warnf("Command %s rejected for %s: %v", c.Command.Name, c.Author.ID, err)
	default:
		utils.Errorf("Command %s failed for %s: %v", c.Command.Name, c.Author.ID, err)
	}
	if replyErr := c.ReplyEphemeral("❌ " + model.UserMessage(err)); replyErr != nil {
		utils.Warnf("Failed to report error of %s to %s: %v", c.Command.Name, c.Author.ID, replyErr)
	}
}
