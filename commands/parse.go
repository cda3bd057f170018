package commands

import (
	"strings"
	"unicode"
)

// stripPrefix removes the configured prefix, or a mention of the bot when mentions are
// accepted, from the start of content. It reports which one matched.
func stripPrefix(content, prefix, botID string, mention bool) (rest, matched string, ok bool) {
	if prefix != "" && strings.HasPrefix(content, prefix) {
		return content[len(prefix):], prefix, true
	}
	if !mention || botID == "" {
		return "", "", false
	}
	for _, m := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(content, m) {
			return strings.TrimLeftFunc(content[len(m):], unicode.IsSpace), m, true
		}
	}
	return "", "", false
}

// splitCommand separates the command name from the raw argument tail.
func splitCommand(s string) (name, raw string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}
