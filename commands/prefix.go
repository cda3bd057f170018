package commands

import (
	"context"

	"dojima-bot/utils"
	"dojima-bot/utils/database"

	"github.com/disgoorg/snowflake/v2"
)

// PrefixResolver picks the prefix that applies to a message origin.
type PrefixResolver struct {
	store         database.PrefixStore
	defaultPrefix string
}

func NewPrefixResolver(store database.PrefixStore, defaultPrefix string) *PrefixResolver {
	return &PrefixResolver{store: store, defaultPrefix: defaultPrefix}
}

func (r *PrefixResolver) Default() string { return r.defaultPrefix }

// Resolve returns the active prefix for guildID. It never fails: direct messages get the
// default without touching the store, and store errors are logged and fall back to it.
func (r *PrefixResolver) Resolve(ctx context.Context, guildID string) string {
	prefix, _ := r.ResolveDetailed(ctx, guildID)
	return prefix
}

// ResolveDetailed is Resolve that also reports whether a guild-specific prefix was found.
func (r *PrefixResolver) ResolveDetailed(ctx context.Context, guildID string) (string, bool) {
	if guildID == "" || r.store == nil {
		return r.defaultPrefix, false
	}
	id, err := snowflake.Parse(guildID)
	if err != nil {
		utils.Warnf("Invalid guild id %q, using default prefix: %v", guildID, err)
		return r.defaultPrefix, false
	}
	prefix, ok, err := r.store.GetPrefix(ctx, id)
	if err != nil {
		utils.Errorf("Failed to load prefix for guild %s, using default: %v", guildID, err)
		return r.defaultPrefix, false
	}
	if !ok {
		return r.defaultPrefix, false
	}
	return prefix, true
}
