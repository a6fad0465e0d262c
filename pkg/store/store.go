package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// ErrSourceConflict is returned when a source name is already registered
// with a different language or type.
var ErrSourceConflict = errors.New("source already exists with different language or type")

// DBExecutor is satisfied by both *sql.DB and *sql.Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetSource returns the id of the named source, registering it first
// when it is new.
func CreateOrGetSource(ctx context.Context, db DBExecutor, src domain.Source) (int64, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		return 0, fmt.Errorf("source name must be non-empty")
	}
	if src.Type != domain.SourceTypeDict && src.Type != domain.SourceTypeFreq {
		return 0, fmt.Errorf("source %q: unknown type %q", name, src.Type)
	}

	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		var (
			id        int64
			lang, typ string
		)
		err := db.QueryRowContext(ctx, `SELECT id, lang, type FROM sources WHERE name = ?`, name).Scan(&id, &lang, &typ)
		if err == nil {
			if lang != src.Lang || typ != src.Type {
				return 0, fmt.Errorf("source %q (%s, %s): %w", name, lang, typ, ErrSourceConflict)
			}
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}

		res, err := db.ExecContext(ctx, `INSERT INTO sources (name, lang, type) VALUES (?, ?, ?)`, name, src.Lang, src.Type)
		if err != nil {
			// Lost a race with a concurrent insert; read it back.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get source after %d retries", maxRetries)
}

// DeleteSource removes the named source and its entries. It reports whether
// the source existed.
func DeleteSource(ctx context.Context, db DBExecutor, name string) (bool, error) {
	if _, err := db.ExecContext(ctx, `DELETE FROM entries WHERE source_id IN (SELECT id FROM sources WHERE name = ?)`, name); err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM sources WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSources returns the catalog ordered by name. An empty lang lists every
// language.
func ListSources(ctx context.Context, db DBExecutor, lang string) ([]domain.Source, error) {
	query := `SELECT name, lang, type FROM sources`
	var args []any
	if lang != "" {
		query += ` WHERE lang = ?`
		args = append(args, lang)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Source
	for rows.Next() {
		var s domain.Source
		if err := rows.Scan(&s.Name, &s.Lang, &s.Type); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PutEntry inserts or replaces the value of word in a source.
func PutEntry(ctx context.Context, db DBExecutor, sourceID int64, word, value string) error {
	if sourceID <= 0 {
		return fmt.Errorf("sourceID must be positive")
	}
	if word == "" {
		return fmt.Errorf("word must be non-empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO entries (source_id, word, value) VALUES (?, ?, ?)
		ON CONFLICT(source_id, word) DO UPDATE SET value = excluded.value`, sourceID, word, value)
	return err
}

// GetEntry returns the value of word in the named source of lang, or an error
// matching domain.ErrWordNotFoundLocally.
func GetEntry(ctx context.Context, db DBExecutor, word, lang, source string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT e.value FROM entries e JOIN sources s ON s.id = e.source_id
		WHERE s.name = ? AND s.lang = ? AND e.word = ?`, source, lang, word).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%q in %q: %w", word, source, domain.ErrWordNotFoundLocally)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// CountEntries returns the number of entries of the named source.
func CountEntries(ctx context.Context, db DBExecutor, source string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries e JOIN sources s ON s.id = e.source_id WHERE s.name = ?`, source).Scan(&n)
	return n, err
}

// InsertLookup appends a lookup history record.
func InsertLookup(ctx context.Context, db DBExecutor, rec domain.LookupRecord, at time.Time) error {
	_, err := db.ExecContext(ctx, `INSERT INTO lookups (word, definition, lang, lemmatized, provider, success, looked_up_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Word, nullableString(rec.Definition), rec.Lang, rec.Lemmatized, rec.Provider, rec.Success, at.UnixNano())
	return err
}

// CountLookupsSince returns the number of lookups recorded at or after since.
func CountLookupsSince(ctx context.Context, db DBExecutor, since time.Time) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups WHERE looked_up_at >= ?`, since.UnixNano()).Scan(&n)
	return n, err
}

// nullableString returns nil for "" (a failed lookup has no definition).
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
