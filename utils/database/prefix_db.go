package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dojima-bot/model"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// PrefixStore is the guild prefix configuration contract shared by the SQLite store and its cache.
type PrefixStore interface {
	// GetPrefix returns the stored prefix and whether a record exists.
	GetPrefix(ctx context.Context, guildID snowflake.ID) (string, bool, error)
	// SetPrefix inserts or replaces the prefix of a guild.
	SetPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error
}

// InitPrefixDB opens the SQLite database at dbPath and ensures the guild_prefixes table exists.
func InitPrefixDB(dbPath string) (*sqlx.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := CreatePrefixTable(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreatePrefixTable creates the guild_prefixes table if it does not exist yet.
func CreatePrefixTable(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS guild_prefixes (
		guild_id INTEGER NOT NULL PRIMARY KEY,
		prefix   TEXT    NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create guild_prefixes table: %w", err)
	}
	return nil
}

// SQLPrefixStore persists guild prefixes in SQLite. Concurrency control is left to the database.
type SQLPrefixStore struct {
	db *sqlx.DB
}

// NewSQLPrefixStore wraps an open database handle.
func NewSQLPrefixStore(db *sqlx.DB) *SQLPrefixStore {
	return &SQLPrefixStore{db: db}
}

func (s *SQLPrefixStore) GetPrefix(ctx context.Context, guildID snowflake.ID) (string, bool, error) {
	var record model.GuildPrefixRecord
	err := s.db.GetContext(ctx, &record, "SELECT guild_id, prefix FROM guild_prefixes WHERE guild_id = ?", int64(guildID))
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get prefix for guild %s: %w: %v", guildID, model.ErrStorage, err)
	}
	return record.Prefix, true, nil
}

func (s *SQLPrefixStore) SetPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error {
	if err := model.ValidatePrefix(prefix); err != nil {
		return err
	}

	query := `INSERT INTO guild_prefixes (guild_id, prefix) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET prefix = excluded.prefix`
	if _, err := s.db.ExecContext(ctx, query, int64(guildID), prefix); err != nil {
		return fmt.Errorf("failed to set prefix for guild %s: %w: %v", guildID, model.ErrStorage, err)
	}
	return nil
}

// CountPrefixes returns how many guilds have a custom prefix.
func (s *SQLPrefixStore) CountPrefixes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM guild_prefixes"); err != nil {
		return 0, fmt.Errorf("failed to count prefixes: %w: %v", model.ErrStorage, err)
	}
	return n, nil
}
