package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dojima-bot/model"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("OWNER_IDS", "1, 2,,3")

	cfg, err := load(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultPrefix != "td!" || cfg.DatabasePath != "data/guilds.db" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MenuTimeout != 24*time.Hour || cfg.PresenceInterval != 50*time.Second {
		t.Fatalf("unexpected durations %s %s", cfg.MenuTimeout, cfg.PresenceInterval)
	}
	if !cfg.MentionAsPrefix || cfg.CaseInsensitiveCommands {
		t.Fatal("mentions are accepted and matching is case sensitive by default")
	}
	if cfg.PurgeMax != 255 {
		t.Fatalf("PurgeMax = %d", cfg.PurgeMax)
	}
	if strings.Join(cfg.OwnerIDs, "|") != "1|2|3" || !cfg.IsOwner("2") || cfg.IsOwner("4") {
		t.Fatalf("unexpected owners %v", cfg.OwnerIDs)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "default_prefix: \"?\"\nmenu_timeout: 10m\nredis_url: redis://localhost:6379/0\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("MENU_TIMEOUT", "1h")

	cfg, err := load(viper.New(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultPrefix != "?" || cfg.RedisURL == "" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MenuTimeout != time.Hour {
		t.Fatalf("environment should override the file, got %s", cfg.MenuTimeout)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing token", map[string]string{"BOT_TOKEN": ""}, "BOT_TOKEN"},
		{"long prefix", map[string]string{"BOT_TOKEN": "x", "DEFAULT_PREFIX": "abcdefghijk"}, "DEFAULT_PREFIX"},
		{"blank prefix", map[string]string{"BOT_TOKEN": "x", "DEFAULT_PREFIX": "  "}, "DEFAULT_PREFIX"},
		{"zero menu timeout", map[string]string{"BOT_TOKEN": "x", "MENU_TIMEOUT": "0s"}, "MENU_TIMEOUT"},
		{"zero purge max", map[string]string{"BOT_TOKEN": "x", "PURGE_MAX": "0"}, "PURGE_MAX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(viper.New(), t.TempDir())
			if !errors.Is(err, model.ErrValidation) || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected a validation error about %s, got %v", tt.want, err)
			}
		})
	}
}
