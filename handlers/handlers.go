// Package handlers implements the bot's commands and wires them to the gateway.
package handlers

import (
	"fmt"
	"time"

	"dojima-bot/bot"
	"dojima-bot/commands"
	"dojima-bot/paginator"
	"dojima-bot/scanner"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Version is reported by the about command.
var Version = "dev"

const purgeConfirmDelay = 5 * time.Second

// Register builds the command table for b, installs its router and adds the gateway handlers.
func Register(b *bot.Bot) error {
	cfg := b.GetConfig()
	resolver := commands.NewPrefixResolver(b.Store, cfg.DefaultPrefix)
	logs := utils.ChannelSender(b.Session)
	guildCount := func() int {
		b.Session.State.RLock()
		defer b.Session.State.RUnlock()
		return len(b.Session.State.Guilds)
	}

	help := &HelpHandler{
		Resolver: resolver,
		Menu:     paginator.NewMenu(b.Collector, b.Session, cfg.MenuTimeout),
	}
	groups := [][]*commands.Descriptor{
		help.Descriptors(),
		(&GeneralHandler{
			Resolver:  resolver,
			Latency:   b.Session.HeartbeatLatency,
			Uptime:    b.Uptime,
			Syncer:    b,
			Version:   Version,
			Direct:    b.Session,
		}).Descriptors(),
		(&PrefixHandler{
			Store:        b.Store,
			Resolver:     resolver,
			Logs:         logs,
			LogChannelID: cfg.LogChannelID,
		}).Descriptors(),
		(&PurgeHandler{
			Deleter:      scanner.NewBulkFilterDeleter(b.Session),
			Max:          cfg.PurgeMax,
			ConfirmDelay: purgeConfirmDelay,
			Logs:         logs,
			LogChannelID: cfg.LogChannelID,
		}).Descriptors(),
		(&ModerationHandler{
			API:          b.Session,
			Notify:       b.Session,
			Logs:         logs,
			LogChannelID: cfg.LogChannelID,
		}).Descriptors(),
		(&SystemInfoHandler{
			Latency:      b.Session.HeartbeatLatency,
			GuildCount:   guildCount,
			Prefixes:     b.Prefixes,
			DatabasePath: cfg.DatabasePath,
			Uptime:       b.Uptime,
		}).Descriptors(),
	}
	var all []*commands.Descriptor
	for _, g := range groups {
		all = append(all, g...)
	}

	registry, err := commands.NewRegistry(cfg.CaseInsensitiveCommands, all...)
	if err != nil {
		return fmt.Errorf("building command table: %w", err)
	}
	help.Registry = registry

	b.Router = commands.NewRouter(registry, resolver, b.Session, commands.RouterOptions{
		MentionAsPrefix: cfg.MentionAsPrefix,
		IsOwner:         cfg.IsOwner,
		Cooldowns:       b.Cooldowns,
		Components:      b.Collector,
	})
	addHandlers(b)
	utils.Infof("Registered %d commands", len(all))
	return nil
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.Router.SetBotUserID(r.User.ID)
		utils.Infof("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Errors are already reported to the invoker and logged by the router
		_ = b.Router.Dispatch(b.Context(), commands.Event{Message: m.Message})
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		_ = b.Router.Dispatch(b.Context(), commands.Event{Interaction: i.Interaction})
	})
}
