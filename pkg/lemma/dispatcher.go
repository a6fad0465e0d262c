// Package lemma turns inflected word forms into dictionary keys.
package lemma

import (
	"log/slog"
	"sync"

	"github.com/japaniel/wordlookup/pkg/morph"
)

// Dispatcher picks a lemmatization strategy per language:
//   - "ru": the Russian morphological analyzer
//   - "ja": the Japanese analyzer, when one is configured
//   - languages with a lemma table: the single-slot table cache
//   - anything else: the word unchanged
//
// It is safe for concurrent use. Table lookups serialize on one mutex;
// analyzer lookups do not lock.
type Dispatcher struct {
	loader   TableLoader
	russian  morph.Analyzer
	japanese morph.Analyzer
	tables   map[string]struct{}
	log      *slog.Logger

	mu    sync.Mutex
	cache Cache
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithJapanese enables analyzer-based lemmatization for Japanese.
func WithJapanese(a morph.Analyzer) Option {
	return func(d *Dispatcher) { d.japanese = a }
}

// WithTableLanguages overrides the set of languages served by lemma tables.
func WithTableLanguages(langs []string) Option {
	return func(d *Dispatcher) {
		d.tables = make(map[string]struct{}, len(langs))
		for _, l := range langs {
			d.tables[l] = struct{}{}
		}
	}
}

// NewDispatcher creates a Dispatcher. russian may be nil, in which case
// Russian falls through to its lemma table.
func NewDispatcher(loader TableLoader, russian morph.Analyzer, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		loader:  loader,
		russian: russian,
		log:     logger.With("component", "lemma"),
	}
	WithTableLanguages(TableLanguages)(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lemmatize returns the dictionary form of word in lang. It never fails:
// languages without a lemmatizer, and tables that cannot be loaded, yield the
// word unchanged.
func (d *Dispatcher) Lemmatize(word, lang string) string {
	switch {
	case lang == "ru" && d.russian != nil:
		return morph.Best(d.russian, word)
	case lang == "ja" && d.japanese != nil:
		return morph.Best(d.japanese, word)
	}

	if _, ok := d.tables[lang]; !ok || d.loader == nil {
		return word
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lemma, err := d.cache.Lemmatize(d.loader, word, lang)
	if err != nil {
		d.log.Warn("lemma table unavailable", slog.String("lang", lang), slog.String("error", err.Error()))
		return word
	}
	return lemma
}

// Resident reports the language whose table is currently loaded.
func (d *Dispatcher) Resident() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache.Resident()
}
