// Package redisstore is a local store kept in Redis: a catalog hash, one hash
// of entries per source, and the lookup history as a sorted set.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/store"
)

// DefaultPrefix namespaces every key.
const DefaultPrefix = "wordlookup:"

// Store implements the local store on a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps client. An empty prefix selects DefaultPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to addr and verifies the connection.
func Open(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: ping %s: %w", addr, err)
	}
	return New(client, ""), nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) sourcesKey() string { return s.prefix + "sources" }
func (s *Store) entriesKey(source string) string { return s.prefix + "entries:" + source }
func (s *Store) lookupsKey() string { return s.prefix + "lookups" }
func (s *Store) lookupSeqKey() string { return s.prefix + "lookups:seq" }

func (s *Store) source(ctx context.Context, name string) (domain.Source, bool, error) {
	raw, err := s.client.HGet(ctx, s.sourcesKey(), name).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Source{}, false, nil
	}
	if err != nil {
		return domain.Source{}, false, err
	}
	var src domain.Source
	if err := json.Unmarshal([]byte(raw), &src); err != nil {
		return domain.Source{}, false, fmt.Errorf("decode source %q: %w", name, err)
	}
	return src, true, nil
}

// Define returns the stored value of word in the named source of lang.
func (s *Store) Define(ctx context.Context, word, lang, source string) (string, error) {
	src, ok, err := s.source(ctx, source)
	if err != nil {
		return "", fmt.Errorf("redisstore: define: %w", err)
	}
	if !ok || src.Lang != lang {
		return "", fmt.Errorf("redisstore: %q in %q: %w", word, source, domain.ErrWordNotFoundLocally)
	}

	v, err := s.client.HGet(ctx, s.entriesKey(source), word).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redisstore: %q in %q: %w", word, source, domain.ErrWordNotFoundLocally)
	}
	if err != nil {
		return "", fmt.Errorf("redisstore: define: %w", err)
	}
	return v, nil
}

// Sources lists the catalog ordered by name; an empty lang lists every
// language.
func (s *Store) Sources(ctx context.Context, lang string) ([]domain.Source, error) {
	all, err := s.client.HGetAll(ctx, s.sourcesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list sources: %w", err)
	}
	out := make([]domain.Source, 0, len(all))
	for name, raw := range all {
		var src domain.Source
		if err := json.Unmarshal([]byte(raw), &src); err != nil {
			return nil, fmt.Errorf("redisstore: decode source %q: %w", name, err)
		}
		if lang == "" || src.Lang == lang {
			out = append(out, src)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddSource registers src. An identical source is a no-op; the same name
// with another language or type fails with store.ErrSourceConflict.
func (s *Store) AddSource(ctx context.Context, src domain.Source) error {
	src.Name = strings.TrimSpace(src.Name)
	if src.Name == "" {
		return fmt.Errorf("redisstore: source name must be non-empty")
	}
	if src.Type != domain.SourceTypeDict && src.Type != domain.SourceTypeFreq {
		return fmt.Errorf("redisstore: source %q: unknown type %q", src.Name, src.Type)
	}

	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("redisstore: encode source: %w", err)
	}
	added, err := s.client.HSetNX(ctx, s.sourcesKey(), src.Name, data).Result()
	if err != nil {
		return fmt.Errorf("redisstore: add source: %w", err)
	}
	if added {
		return nil
	}

	existing, _, err := s.source(ctx, src.Name)
	if err != nil {
		return fmt.Errorf("redisstore: add source: %w", err)
	}
	if existing.Lang != src.Lang || existing.Type != src.Type {
		return fmt.Errorf("redisstore: source %q (%s, %s): %w", src.Name, existing.Lang, existing.Type, store.ErrSourceConflict)
	}
	return nil
}

// RemoveSource deletes a source and its entries.
func (s *Store) RemoveSource(ctx context.Context, name string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, s.sourcesKey(), name)
		pipe.Del(ctx, s.entriesKey(name))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redisstore: remove source %q: %w", name, err)
	}
	return removed.Val() > 0, nil
}

// PutEntries writes entries of a registered source in one pipeline.
func (s *Store) PutEntries(ctx context.Context, source string, entries []domain.Entry) error {
	if _, ok, err := s.source(ctx, source); err != nil {
		return fmt.Errorf("redisstore: put entries: %w", err)
	} else if !ok {
		return fmt.Errorf("redisstore: source %q is not registered", source)
	}
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		if e.Word == "" {
			return fmt.Errorf("redisstore: word must be non-empty")
		}
		values = append(values, e.Word, e.Value)
	}
	if err := s.client.HSet(ctx, s.entriesKey(source), values...).Err(); err != nil {
		return fmt.Errorf("redisstore: put %d entries: %w", len(entries), err)
	}
	return nil
}

type lookupMember struct {
	Seq int64 `json:"seq"`
	domain.LookupRecord
	At time.Time `json:"at"`
}

// RecordLookup appends rec to the history, scored by time.
func (s *Store) RecordLookup(ctx context.Context, rec domain.LookupRecord) error {
	seq, err := s.client.Incr(ctx, s.lookupSeqKey()).Result()
	if err != nil {
		return fmt.Errorf("redisstore: record lookup: %w", err)
	}
	now := time.Now()
	member, err := json.Marshal(lookupMember{Seq: seq, LookupRecord: rec, At: now.UTC()})
	if err != nil {
		return fmt.Errorf("redisstore: encode lookup: %w", err)
	}
	err = s.client.ZAdd(ctx, s.lookupsKey(), redis.Z{Score: float64(now.UnixMicro()), Member: member}).Err()
	if err != nil {
		return fmt.Errorf("redisstore: record lookup: %w", err)
	}
	return nil
}

// CountLookupsSince returns how many lookups were recorded since t.
func (s *Store) CountLookupsSince(ctx context.Context, t time.Time) (int, error) {
	n, err := s.client.ZCount(ctx, s.lookupsKey(), strconv.FormatInt(t.UnixMicro(), 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: count lookups: %w", err)
	}
	return int(n), nil
}
