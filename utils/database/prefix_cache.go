package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dojima-bot/model"
	"dojima-bot/utils"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

const prefixKeyPrefix = "prefix:"

// CachedPrefixStore is a read-through Redis cache in front of a PrefixStore.
// An empty cached value records that the guild has no custom prefix.
type CachedPrefixStore struct {
	store PrefixStore
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedPrefixStore wraps store with a Redis cache. Entries expire after ttl.
func NewCachedPrefixStore(store PrefixStore, rdb *redis.Client, ttl time.Duration) *CachedPrefixStore {
	return &CachedPrefixStore{store: store, rdb: rdb, ttl: ttl}
}

// NewRedisClient parses a redis:// URL into a client. The connection is made lazily.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func cacheKey(guildID snowflake.ID) string {
	return prefixKeyPrefix + guildID.String()
}

func (c *CachedPrefixStore) GetPrefix(ctx context.Context, guildID snowflake.ID) (string, bool, error) {
	cached, err := c.rdb.Get(ctx, cacheKey(guildID)).Result()
	switch {
	case err == nil:
		return cached, cached != "", nil
	case !errors.Is(err, redis.Nil):
		utils.Warnf("Prefix cache read failed for guild %s, falling back to database: %v", guildID, err)
	}

	prefix, ok, err := c.store.GetPrefix(ctx, guildID)
	if err != nil {
		return "", false, err
	}
	// SetNX so a fill racing with SetPrefix never replaces the newer value.
	if err := c.rdb.SetNX(ctx, cacheKey(guildID), prefix, c.ttl).Err(); err != nil {
		utils.Warnf("Prefix cache write failed for guild %s: %v", guildID, err)
	}
	return prefix, ok, nil
}

// SetPrefix writes the store, then replaces the cached value. When the cache can neither be
// updated nor cleared the stored prefix is kept but an ErrStorage error is returned, since
// reads could keep serving the old value until the entry expires.
func (c *CachedPrefixStore) SetPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error {
	if err := model.ValidatePrefix(prefix); err != nil {
		return err
	}
	if err := c.store.SetPrefix(ctx, guildID, prefix); err != nil {
		return err
	}

	key := cacheKey(guildID)
	setErr := c.rdb.Set(ctx, key, prefix, c.ttl).Err()
	if setErr == nil {
		return nil
	}
	utils.Warnf("Prefix cache update failed for guild %s, clearing entry: %v", guildID, setErr)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("prefix for guild %s saved but the cache is stale: %w: %v", guildID, model.ErrStorage, err)
	}
	return nil
}
