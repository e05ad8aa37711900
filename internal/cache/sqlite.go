package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on modernc.org/sqlite. Every Put is
// durable immediately; Flush is a no-op.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite cache at the given path, configures WAL
// mode, and ensures the schema exists.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS search_cache (
	id         TEXT NOT NULL,
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM search_cache WHERE key = ?`, key,
	)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "cache: get %s", key)
	}
	return json.RawMessage(value), true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_cache (id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		uuid.New().String(), key, string(value), time.Now().UTC(),
	)
	return eris.Wrapf(err, "cache: put %s", key)
}

func (s *SQLiteStore) Flush(context.Context) error { return nil }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
