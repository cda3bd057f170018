package bot

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dojima-bot/api"
	"dojima-bot/utils"
)

// Run connects to the gateway, registers slash commands, starts background work and blocks
// until the process is interrupted.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if _, err := b.RegisterCommands(); err != nil {
		utils.Errorf("Failed to register slash commands: %v", err)
		utils.LogError(b.Session, b.GetConfig().LogChannelID, "System", "Slash registration", err.Error())
	}

	b.scheduler.Start()

	cfg := b.GetConfig()
	if cfg.APIAddr != "" {
		b.api = &http.Server{
			Addr:    cfg.APIAddr,
			Handler: api.NewRouter(b.Router.Resolver(), b.Uptime),
		}
		go func() {
			utils.Infof("Status API listening on %s", cfg.APIAddr)
			if err := b.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				utils.Errorf("Status API stopped: %v", err)
			}
		}()
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, cfg.LogChannelID, "System", "Startup", "Bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
