package bot

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"dojima-bot/commands"
	"dojima-bot/model"
	"dojima-bot/paginator"
	"dojima-bot/utils"
	"dojima-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	DB                 *sqlx.DB
	Prefixes           *database.SQLPrefixStore
	// Store is the prefix store used for reads and writes, cached when Redis is configured.
	Store     database.PrefixStore
	Router    *commands.Router
	Collector *paginator.Collector
	Cooldowns *commands.Cooldowns
	StartTime time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	scheduler *Scheduler
	api       *http.Server
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// Context is cancelled when the bot closes. Long running handlers such as menus use it.
func (b *Bot) Context() context.Context {
	return b.ctx
}

// Uptime is the time since the bot was created.
func (b *Bot) Uptime() time.Duration {
	return time.Since(b.StartTime)
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	prefixes := database.NewSQLPrefixStore(db)
	var store database.PrefixStore = prefixes
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = database.NewCachedPrefixStore(prefixes, rdb, cfg.PrefixCacheTTL)
		utils.Infof("Prefix cache enabled (ttl %s)", cfg.PrefixCacheTTL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		Session:   dg,
		DB:        db,
		Prefixes:  prefixes,
		Store:     store,
		Collector: paginator.NewCollector(),
		Cooldowns: commands.NewCooldowns(cfg.CommandRate, cfg.CommandBurst),
		StartTime: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// ApplicationID is the configured application id, or the logged-in user's id.
func (b *Bot) ApplicationID() string {
	if id := b.GetConfig().AppID; id != "" {
		return id
	}
	if b.Session.State != nil && b.Session.State.User != nil {
		return b.Session.State.User.ID
	}
	return ""
}

// RegisterCommands overwrites the global slash commands with the ones derived from the
// command table.
func (b *Bot) RegisterCommands() (int, error) {
	if b.Router == nil {
		return 0, fmt.Errorf("router not initialised")
	}
	appID := b.ApplicationID()
	if appID == "" {
		return 0, fmt.Errorf("%w: application id unknown before login", model.ErrExternalAPI)
	}
	defs := commands.SlashDefinitions(b.Router.Registry())
	registered, err := b.Session.ApplicationCommandBulkOverwrite(appID, "", defs)
	if err != nil {
		return 0, fmt.Errorf("%w: registering %d slash commands: %v", model.ErrExternalAPI, len(defs), err)
	}
	b.RegisteredCommands = registered
	utils.Infof("Registered %d slash commands", len(registered))
	return len(registered), nil
}

func (b *Bot) Close() {
	utils.Infof("Gracefully shutting down.")
	b.cancel()
	b.scheduler.Stop()
	if b.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.api.Shutdown(ctx); err != nil {
			utils.Warnf("Status API shutdown: %v", err)
		}
	}
	if err := b.Session.Close(); err != nil {
		utils.Warnf("Error closing session: %v", err)
	}
	if err := b.DB.Close(); err != nil {
		utils.Warnf("Error closing database: %v", err)
	}
}
