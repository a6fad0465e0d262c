// Package store is the SQLite local store: the source catalog, the keyed
// dictionary and frequency entries, and the lookup history.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	lang TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('dict', 'freq')),
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	source_id INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
	word TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (source_id, word)
);

CREATE TABLE IF NOT EXISTS lookups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL,
	definition TEXT,
	lang TEXT NOT NULL,
	lemmatized INTEGER NOT NULL,
	provider TEXT NOT NULL,
	success INTEGER NOT NULL,
	looked_up_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sources_lang ON sources(lang);
CREATE INDEX IF NOT EXISTS idx_lookups_time ON lookups(looked_up_at);
`

// InitDB runs the schema migrations on db. It is idempotent.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("store: enable foreign keys: %w", err)
	}
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at path and migrates
// it. ":memory:" opens a private in-memory database.
func Open(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// One connection keeps an in-memory database shared and serializes
	// writers on disk.
	conn.SetMaxOpenConns(1)
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLite{db: conn}, nil
}
