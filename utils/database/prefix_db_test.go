package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"dojima-bot/model"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *SQLPrefixStore {
	t.Helper()
	db, err := InitPrefixDB(filepath.Join(t.TempDir(), "guilds.db"))
	if err != nil {
		t.Fatalf("InitPrefixDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLPrefixStore(db)
}

func TestGetPrefixMissing(t *testing.T) {
	store := newTestStore(t)

	prefix, ok, err := store.GetPrefix(context.Background(), snowflake.ID(42))
	if err != nil {
		t.Fatalf("GetPrefix: %v", err)
	}
	if ok || prefix != "" {
		t.Fatalf("expected no record, got %q (ok=%v)", prefix, ok)
	}
}

func TestSetThenGetPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := map[snowflake.ID]string{
		1:                   "!",
		81384788765712384:   "td!",
		1221614686865461259: "dojima>",
	}
	for g, p := range want {
		if err := store.SetPrefix(ctx, g, p); err != nil {
			t.Fatalf("SetPrefix(%s): %v", g, err)
		}
	}
	for g, p := range want {
		prefix, ok, err := store.GetPrefix(ctx, g)
		if err != nil {
			t.Fatalf("GetPrefix(%s): %v", g, err)
		}
		if !ok || prefix != p {
			t.Fatalf("GetPrefix(%s) = %q, %v; want %q", g, prefix, ok, p)
		}
	}
}

func TestSetPrefixUpsertKeepsOneRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	guild := snowflake.ID(1234)

	for _, p := range []string{"?", "$$", "td!"} {
		if err := store.SetPrefix(ctx, guild, p); err != nil {
			t.Fatalf("SetPrefix(%q): %v", p, err)
		}
	}

	n, err := store.CountPrefixes(ctx)
	if err != nil {
		t.Fatalf("CountPrefixes: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one record, got %d", n)
	}
	prefix, _, _ := store.GetPrefix(ctx, guild)
	if prefix != "td!" {
		t.Fatalf("expected latest value td!, got %q", prefix)
	}
}

func TestSetPrefixTooLongLeavesRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	guild := snowflake.ID(99)

	if err := store.SetPrefix(ctx, guild, "ok!"); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	err := store.SetPrefix(ctx, guild, "waytoolongprefix")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	prefix, ok, err := store.GetPrefix(ctx, guild)
	if err != nil || !ok || prefix != "ok!" {
		t.Fatalf("record changed: %q, %v, %v", prefix, ok, err)
	}
}

func TestGetPrefixStorageError(t *testing.T) {
	store := newTestStore(t)
	store.db.Close()

	_, _, err := store.GetPrefix(context.Background(), snowflake.ID(1))
	if !errors.Is(err, model.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestCachedPrefixStoreFallsBackWhenRedisDown(t *testing.T) {
	store := newTestStore(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	cached := NewCachedPrefixStore(store, rdb, time.Minute)
	ctx := context.Background()

	// The database write succeeds, but an unreachable cache cannot be brought up to date
	if err := cached.SetPrefix(ctx, snowflake.ID(7), "~"); !errors.Is(err, model.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	prefix, ok, err := cached.GetPrefix(ctx, snowflake.ID(7))
	if err != nil || !ok || prefix != "~" {
		t.Fatalf("GetPrefix = %q, %v, %v", prefix, ok, err)
	}

	if err := cached.SetPrefix(ctx, snowflake.ID(7), "12345678901"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewRedisClient(t *testing.T) {
	if _, err := NewRedisClient("not a url"); err == nil {
		t.Fatal("expected an error for a malformed url")
	}
	rdb, err := NewRedisClient("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rdb.Close()
	if rdb.Options().DB != 2 {
		t.Fatalf("db = %d, want 2", rdb.Options().DB)
	}
}
