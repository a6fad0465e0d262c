// Package dictionary imports dictionaries and frequency lists into the local
// store, including the JMdict Japanese-English dictionary.
package dictionary

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// Sink is the write side of a local store.
type Sink interface {
	AddSource(ctx context.Context, src domain.Source) error
	PutEntries(ctx context.Context, source string, entries []domain.Entry) error
}

// Format is the layout of an import file.
type Format string

const (
	// FormatTSV is "word<TAB>value" per line.
	FormatTSV Format = "tsv"
	// FormatJSON is an object mapping words to strings or numbers.
	FormatJSON Format = "json"
	// FormatList is one word per line, most frequent first; the value is
	// the 1-based rank.
	FormatList Format = "list"
)

// FormatForPath guesses the format from the file extension. Frequency lists
// without a known extension are read as ranked lists.
func FormatForPath(path, sourceType string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".tsv":
		return FormatTSV
	}
	if sourceType == domain.SourceTypeFreq {
		return FormatList
	}
	return FormatTSV
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTSV, FormatJSON, FormatList:
		return f, nil
	}
	return "", fmt.Errorf("dictionary: unknown format %q", s)
}

// ReadEntries parses r in the given format.
func ReadEntries(r io.Reader, f Format) ([]domain.Entry, error) {
	switch f {
	case FormatTSV:
		return readTSV(r)
	case FormatJSON:
		return readJSON(r)
	case FormatList:
		return readList(r)
	}
	return nil, fmt.Errorf("dictionary: unknown format %q", f)
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return sc
}

func readTSV(r io.Reader) ([]domain.Entry, error) {
	var out []domain.Entry
	sc := newScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, value, ok := strings.Cut(text, "\t")
		if !ok || strings.TrimSpace(word) == "" {
			return nil, fmt.Errorf("dictionary: line %d: want word<TAB>value", line)
		}
		out = append(out, domain.Entry{Word: strings.TrimSpace(word), Value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read: %w", err)
	}
	return out, nil
}

func readJSON(r io.Reader) ([]domain.Entry, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("dictionary: decode json: %w", err)
	}
	out := make([]domain.Entry, 0, len(raw))
	for word, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out = append(out, domain.Entry{Word: word, Value: s})
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return nil, fmt.Errorf("dictionary: %q: value must be a string or a number", word)
		}
		out = append(out, domain.Entry{Word: word, Value: n.String()})
	}
	return out, nil
}

func readList(r io.Reader) ([]domain.Entry, error) {
	var out []domain.Entry
	seen := make(map[string]struct{})
	sc := newScanner(r)
	rank := 0
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		rank++
		// A word keeps its best rank.
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, domain.Entry{Word: word, Value: strconv.Itoa(rank)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read: %w", err)
	}
	return out, nil
}

// Importer writes entries into a Sink in chunks.
type Importer struct {
	sink      Sink
	batchSize int
	log       *slog.Logger
}

// NewImporter creates an Importer; batchSize <= 0 selects 1000.
func NewImporter(sink Sink, batchSize int, logger *slog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Importer{sink: sink, batchSize: batchSize, log: logger.With("component", "import")}
}

// Import registers src and stores entries under it. Frequency values must be
// integers and frequency keys are stored lowercased, the way they are
// queried. It returns the number of entries written.
func (im *Importer) Import(ctx context.Context, src domain.Source, entries []domain.Entry) (int, error) {
	if src.Type == domain.SourceTypeFreq {
		normalized := make([]domain.Entry, 0, len(entries))
		for _, e := range entries {
			if _, err := strconv.Atoi(strings.TrimSpace(e.Value)); err != nil {
				return 0, fmt.Errorf("dictionary: %q: %w: %q", e.Word, domain.ErrFrequencyFormat, e.Value)
			}
			normalized = append(normalized, domain.Entry{Word: strings.ToLower(e.Word), Value: strings.TrimSpace(e.Value)})
		}
		entries = normalized
	}

	if err := im.sink.AddSource(ctx, src); err != nil {
		return 0, fmt.Errorf("dictionary: register %q: %w", src.Name, err)
	}

	written := 0
	for start := 0; start < len(entries); start += im.batchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := min(start+im.batchSize, len(entries))
		if err := im.sink.PutEntries(ctx, src.Name, entries[start:end]); err != nil {
			return written, fmt.Errorf("dictionary: import %q: %w", src.Name, err)
		}
		written = end
		im.log.DebugContext(ctx, "import progress", slog.String("source", src.Name), slog.Int("written", written))
	}

	im.log.InfoContext(ctx, "import complete",
		slog.String("source", src.Name),
		slog.String("lang", src.Lang),
		slog.String("type", src.Type),
		slog.Int("entries", written),
	)
	return written, nil
}

// ImportJMdict imports JMdict entries as the Japanese "JMdict" dictionary.
func (im *Importer) ImportJMdict(ctx context.Context, entries []JMdictEntry) (int, error) {
	src := domain.Source{Name: JMdictSourceName, Lang: "ja", Type: domain.SourceTypeDict}
	return im.Import(ctx, src, JMdictEntries(entries))
}
