package model

import "time"

// Config holds the application configuration.
type Config struct {
	BotToken                string
	AppID                   string
	LogChannelID            string
	DatabasePath            string
	DefaultPrefix           string
	OwnerIDs                []string
	CaseInsensitiveCommands bool
	MentionAsPrefix         bool
	MenuTimeout             time.Duration
	PresenceInterval        time.Duration
	CommandRate             float64
	CommandBurst            int
	RedisURL                string
	PrefixCacheTTL          time.Duration
	APIAddr                 string
	PurgeMax                int
	Debug                   bool
}

// IsOwner reports whether userID is one of the configured bot owners.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
