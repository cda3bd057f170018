package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"dojima-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const configDir = "data"

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_path", "data/guilds.db")
	v.SetDefault("default_prefix", "td!")
	v.SetDefault("case_insensitive_commands", false)
	v.SetDefault("mention_as_prefix", true)
	v.SetDefault("menu_timeout", "24h")
	v.SetDefault("presence_interval", "50s")
	v.SetDefault("command_rate", 0.5)
	v.SetDefault("command_burst", 3)
	v.SetDefault("prefix_cache_ttl", "10m")
	v.SetDefault("purge_max", 255)
}

// Load loads the configuration from .env, an optional data/config.yaml and environment variables.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}
	return load(viper.New(), configDir)
}

func load(v *viper.Viper, dir string) (*model.Config, error) {
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &model.Config{
		BotToken:                v.GetString("bot_token"),
		AppID:                   v.GetString("app_id"),
		LogChannelID:            v.GetString("log_channel_id"),
		DatabasePath:            v.GetString("database_path"),
		DefaultPrefix:           v.GetString("default_prefix"),
		OwnerIDs:                splitIDs(v.GetString("owner_ids")),
		CaseInsensitiveCommands: v.GetBool("case_insensitive_commands"),
		MentionAsPrefix:         v.GetBool("mention_as_prefix"),
		MenuTimeout:             v.GetDuration("menu_timeout"),
		PresenceInterval:        v.GetDuration("presence_interval"),
		CommandRate:             v.GetFloat64("command_rate"),
		CommandBurst:            v.GetInt("command_burst"),
		RedisURL:                v.GetString("redis_url"),
		PrefixCacheTTL:          v.GetDuration("prefix_cache_ttl"),
		APIAddr:                 v.GetString("api_addr"),
		PurgeMax:                v.GetInt("purge_max"),
		Debug:                   v.GetBool("debug"),
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.LogChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, logging to channel will be disabled")
	}
	if len(cfg.OwnerIDs) == 0 {
		log.Println("Warning: OWNER_IDS not set, owner commands are unavailable")
	}
	return cfg, nil
}

func validate(cfg *model.Config) error {
	var problems []string
	if cfg.BotToken == "" {
		problems = append(problems, "BOT_TOKEN is not set")
	}
	if strings.TrimSpace(cfg.DefaultPrefix) == "" {
		problems = append(problems, "DEFAULT_PREFIX is empty")
	} else if utf8.RuneCountInString(cfg.DefaultPrefix) > model.MaxPrefixLength {
		problems = append(problems, fmt.Sprintf("DEFAULT_PREFIX is longer than %d characters", model.MaxPrefixLength))
	}
	if cfg.MenuTimeout <= 0 {
		problems = append(problems, "MENU_TIMEOUT must be positive")
	}
	if cfg.PurgeMax < 1 {
		problems = append(problems, "PURGE_MAX must be at least 1")
	}
	if cfg.CommandRate < 0 {
		problems = append(problems, "COMMAND_RATE must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: invalid configuration: %s", model.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
