package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"dojima-bot/model"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

// memoryRedis answers GET, SET and DEL from a map instead of a server.
type memoryRedis struct {
	mu     sync.Mutex
	values map[string]string
	fail   map[string]error
	calls  []string
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.calls = append(m.calls, cmd.Name())
		if err := m.fail[cmd.Name()]; err != nil {
			cmd.SetErr(err)
			return err
		}
		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := m.values[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			m.values[key] = fmt.Sprint(args[2])
			c.SetVal("OK")
		case *redis.BoolCmd:
			if _, ok := m.values[key]; ok {
				c.SetVal(false)
				return nil
			}
			m.values[key] = fmt.Sprint(args[2])
			c.SetVal(true)
		case *redis.IntCmd:
			delete(m.values, key)
			c.SetVal(1)
		}
		return nil
	}
}

func (m *memoryRedis) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func newCachedTestStore(t *testing.T, store PrefixStore) (*CachedPrefixStore, *memoryRedis) {
	t.Helper()
	mem := &memoryRedis{values: map[string]string{}, fail: map[string]error{}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(mem)
	t.Cleanup(func() { rdb.Close() })
	return NewCachedPrefixStore(store, rdb, time.Minute), mem
}

func TestCachedPrefixStoreServesFromCache(t *testing.T) {
	store := newTestStore(t)
	cached, mem := newCachedTestStore(t, store)
	ctx := context.Background()
	guild := snowflake.ID(5)

	if err := cached.SetPrefix(ctx, guild, "a!"); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	if v, _ := mem.value(cacheKey(guild)); v != "a!" {
		t.Fatalf("cache holds %q after SetPrefix, want a!", v)
	}

	// A hit never reaches the database
	if err := store.SetPrefix(ctx, guild, "db!"); err != nil {
		t.Fatal(err)
	}
	prefix, ok, err := cached.GetPrefix(ctx, guild)
	if err != nil || !ok || prefix != "a!" {
		t.Fatalf("GetPrefix = %q, %v, %v; want cached a!", prefix, ok, err)
	}

	// Guilds without a record are cached as empty values
	other := snowflake.ID(6)
	for range 2 {
		prefix, ok, err := cached.GetPrefix(ctx, other)
		if err != nil || ok || prefix != "" {
			t.Fatalf("GetPrefix(missing) = %q, %v, %v", prefix, ok, err)
		}
	}
	if v, ok := mem.value(cacheKey(other)); !ok || v != "" {
		t.Fatalf("missing guild not cached: %q, %v", v, ok)
	}
}

func TestCachedPrefixStoreSetReplacesCachedValue(t *testing.T) {
	cached, mem := newCachedTestStore(t, newTestStore(t))
	ctx := context.Background()
	guild := snowflake.ID(8)

	if err := cached.SetPrefix(ctx, guild, "a!"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cached.GetPrefix(ctx, guild); err != nil {
		t.Fatal(err)
	}

	mem.fail["del"] = errors.New("del unavailable")
	if err := cached.SetPrefix(ctx, guild, "b!"); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	prefix, ok, err := cached.GetPrefix(ctx, guild)
	if err != nil || !ok || prefix != "b!" {
		t.Fatalf("GetPrefix = %q, %v, %v; want b!", prefix, ok, err)
	}
}

func TestCachedPrefixStoreClearsEntryWhenUpdateFails(t *testing.T) {
	store := newTestStore(t)
	cached, mem := newCachedTestStore(t, store)
	ctx := context.Background()
	guild := snowflake.ID(9)

	if err := cached.SetPrefix(ctx, guild, "a!"); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	mem.fail["set"] = errors.New("set unavailable")
	if err := cached.SetPrefix(ctx, guild, "b!"); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	if out := logs.String(); !strings.Contains(out, "WARN") || !strings.Contains(out, "Prefix cache update failed") {
		t.Fatalf("failed cache update not logged as a warning: %q", out)
	}
	if _, ok := mem.value(cacheKey(guild)); ok {
		t.Fatal("stale entry was not cleared")
	}
	delete(mem.fail, "set")
	prefix, _, err := cached.GetPrefix(ctx, guild)
	if err != nil || prefix != "b!" {
		t.Fatalf("GetPrefix = %q, %v; want b!", prefix, err)
	}

	mem.fail["set"] = errors.New("set unavailable")
	mem.fail["del"] = errors.New("del unavailable")
	if err := cached.SetPrefix(ctx, guild, "c!"); !errors.Is(err, model.ErrStorage) {
		t.Fatalf("expected ErrStorage when the cache cannot be updated, got %v", err)
	}
	if p, _, _ := store.GetPrefix(ctx, guild); p != "c!" {
		t.Fatalf("database holds %q, want c!", p)
	}
}

// racingStore runs onGet between reading the database and returning, like a SetPrefix that
// lands while a cache miss is being filled.
type racingStore struct {
	PrefixStore
	onGet func()
}

func (r *racingStore) GetPrefix(ctx context.Context, guildID snowflake.ID) (string, bool, error) {
	prefix, ok, err := r.PrefixStore.GetPrefix(ctx, guildID)
	if r.onGet != nil {
		f := r.onGet
		r.onGet = nil
		f()
	}
	return prefix, ok, err
}

func TestCachedPrefixStoreFillDoesNotOverwriteNewerValue(t *testing.T) {
	store := &racingStore{PrefixStore: newTestStore(t)}
	cached, _ := newCachedTestStore(t, store)
	ctx := context.Background()
	guild := snowflake.ID(10)

	if err := store.SetPrefix(ctx, guild, "a!"); err != nil {
		t.Fatal(err)
	}
	store.onGet = func() {
		if err := cached.SetPrefix(ctx, guild, "b!"); err != nil {
			t.Errorf("SetPrefix: %v", err)
		}
	}

	// This miss reads a! but the concurrent SetPrefix wins
	if prefix, _, _ := cached.GetPrefix(ctx, guild); prefix != "a!" {
		t.Fatalf("first read = %q, want the value read from the database", prefix)
	}
	prefix, ok, err := cached.GetPrefix(ctx, guild)
	if err != nil || !ok || prefix != "b!" {
		t.Fatalf("GetPrefix = %q, %v, %v; want b!", prefix, ok, err)
	}
}
