package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPrefixLength is the longest prefix a guild may configure, in characters.
const MaxPrefixLength = 10

// GuildPrefixRecord is one row of the guild_prefixes table.
type GuildPrefixRecord struct {
	GuildID uint64 `db:"guild_id"`
	Prefix  string `db:"prefix"`
}

// ValidatePrefix rejects prefixes that cannot be stored.
func ValidatePrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("%w: the prefix cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(prefix) > MaxPrefixLength {
		return fmt.Errorf("%w: the prefix cannot be longer than %d characters", ErrValidation, MaxPrefixLength)
	}
	return nil
}
