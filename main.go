package main

import (
	"log"

	"dojima-bot/bot"
	"dojima-bot/config"
	"dojima-bot/handlers"
	"dojima-bot/utils"
	"dojima-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	utils.DebugEnabled = cfg.Debug

	db, err := database.InitPrefixDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	utils.Infof("Prefix database ready at %s", cfg.DatabasePath)

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}
	defer b.Close()

	if err := handlers.Register(b); err != nil {
		log.Fatalf("Error registering handlers: %v", err)
	}

	if err := b.Run(); err != nil {
		log.Printf("Bot stopped: %v", err)
	}
}
