package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// SQLite is the local store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// DB exposes the underlying connection, e.g. for a BatchWriter.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Close() error { return s.db.Close() }

// Define returns the stored value of word in the named source.
func (s *SQLite) Define(ctx context.Context, word, lang, source string) (string, error) {
	v, err := GetEntry(ctx, s.db, word, lang, source)
	if err != nil {
		return "", fmt.Errorf("store: define: %w", err)
	}
	return v, nil
}

// Sources lists the catalog; an empty lang lists every language.
func (s *SQLite) Sources(ctx context.Context, lang string) ([]domain.Source, error) {
	out, err := ListSources(ctx, s.db, lang)
	if err != nil {
		return nil, fmt.Errorf("store: list sources: %w", err)
	}
	return out, nil
}

// AddSource registers src in the catalog. Adding an identical source again is
// a no-op.
func (s *SQLite) AddSource(ctx context.Context, src domain.Source) error {
	if _, err := CreateOrGetSource(ctx, s.db, src); err != nil {
		return fmt.Errorf("store: add source: %w", err)
	}
	return nil
}

// RemoveSource deletes a source and its entries.
func (s *SQLite) RemoveSource(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	found, err := DeleteSource(ctx, tx, name)
	if err != nil {
		return false, fmt.Errorf("store: remove source %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: commit: %w", err)
	}
	return found, nil
}

// PutEntries writes entries into a registered source in one transaction.
func (s *SQLite) PutEntries(ctx context.Context, source string, entries []domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sources WHERE name = ?`, source).Scan(&id); err != nil {
		return fmt.Errorf("store: source %q: %w", source, err)
	}
	for _, e := range entries {
		if err := PutEntry(ctx, tx, id, e.Word, e.Value); err != nil {
			return fmt.Errorf("store: put %q: %w", e.Word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit %d entries: %w", len(entries), err)
	}
	return nil
}

// RecordLookup appends rec to the lookup history.
func (s *SQLite) RecordLookup(ctx context.Context, rec domain.LookupRecord) error {
	if err := InsertLookup(ctx, s.db, rec, time.Now()); err != nil {
		return fmt.Errorf("store: record lookup: %w", err)
	}
	return nil
}

// CountLookupsSince returns how many lookups were recorded since t.
func (s *SQLite) CountLookupsSince(ctx context.Context, t time.Time) (int, error) {
	n, err := CountLookupsSince(ctx, s.db, t)
	if err != nil {
		return 0, fmt.Errorf("store: count lookups: %w", err)
	}
	return n, nil
}
