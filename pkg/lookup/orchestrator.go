// Package lookup turns a raw word into a formatted definition: it normalizes
// and lemmatizes the word, picks the provider and unifies the answer.
package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/format"
	"github.com/japaniel/wordlookup/pkg/provider"
	"github.com/japaniel/wordlookup/pkg/textnorm"
)

// DefaultTarget is the translation language used when a request names none.
const DefaultTarget = "English"

// Lemmatizer maps a word to its dictionary form. It never fails.
type Lemmatizer interface {
	Lemmatize(word, lang string) string
}

// History records lookups.
type History interface {
	RecordLookup(ctx context.Context, rec domain.LookupRecord) error
}

// Request is a single lookup. Provider defaults to Wiktionary and Target to
// DefaultTarget.
type Request struct {
	Word      string
	Lang      string
	Lemmatize bool
	Provider  string
	Target    string
}

// Orchestrator runs lookups against the provider registry.
type Orchestrator struct {
	providers  *provider.Registry
	lemmatizer Lemmatizer
	store      provider.Store
	history    History
	log        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHistory records every lookup in h. Recording errors are logged only.
func WithHistory(h History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// NewOrchestrator creates an Orchestrator. store backs the source catalog
// used by Dictionaries and may be nil when no local store is configured.
func NewOrchestrator(providers *provider.Registry, lemmatizer Lemmatizer, store provider.Store, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers:  providers,
		lemmatizer: lemmatizer,
		store:      store,
		log:        logger.With("component", "lookup"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Lookup resolves req into a result. Every failure is a
// *domain.LookupFailedError carrying the word as the caller passed it.
func (o *Orchestrator) Lookup(ctx context.Context, req Request) (*domain.LookupResult, error) {
	name := req.Provider
	if name == "" {
		name = provider.NameWiktionary
	}
	target := req.Target
	if target == "" {
		target = DefaultTarget
	}

	word := o.Normalize(req.Word, req.Lang, req.Lemmatize)
	desc, client := o.providers.Resolve(name)

	o.log.DebugContext(ctx, "lookup",
		slog.String("word", req.Word),
		slog.String("key", word),
		slog.String("lang", req.Lang),
		slog.String("provider", name),
		slog.String("kind", desc.Kind.String()),
	)

	result, err := o.dispatch(ctx, desc, client, provider.Query{
		Word:   word,
		Lang:   req.Lang,
		Target: target,
		Source: name,
	})
	if err != nil {
		o.record(ctx, domain.LookupRecord{Word: req.Word, Lang: req.Lang, Lemmatized: req.Lemmatize, Provider: name})
		return nil, &domain.LookupFailedError{Word: req.Word, Provider: name, Err: err}
	}

	o.record(ctx, domain.LookupRecord{
		Word:       req.Word,
		Definition: result.Definition,
		Lang:       req.Lang,
		Lemmatized: req.Lemmatize,
		Provider:   name,
		Success:    true,
	})
	return result, nil
}

// Normalize produces the lookup key: accent removal for Russian, optional
// lemmatization, then removal of surrounding punctuation.
func (o *Orchestrator) Normalize(word, lang string, lemmatize bool) string {
	if lang == "ru" {
		word = textnorm.RemoveAccents(word)
	}
	if lemmatize && o.lemmatizer != nil {
		word = o.lemmatizer.Lemmatize(word, lang)
	}
	return textnorm.StripDecorations(word)
}

func (o *Orchestrator) dispatch(ctx context.Context, desc domain.ProviderDescriptor, client provider.Client, q provider.Query) (*domain.LookupResult, error) {
	if client == nil {
		return nil, fmt.Errorf("lookup: no client for %q", desc.Name)
	}
	if !desc.Supports(q.Lang) {
		return nil, fmt.Errorf("lookup: %s: %q: %w", desc.Name, q.Lang, domain.ErrUnsupportedLanguage)
	}

	result, err := client.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}

	out := *result
	if desc.Kind == domain.KindRemoteStructuredDictionary {
		out.Definition = format.Definitions(out.Definitions)
	}
	out.Provider = desc.Name
	return &out, nil
}

func (o *Orchestrator) record(ctx context.Context, rec domain.LookupRecord) {
	if o.history == nil {
		return
	}
	if err := o.history.RecordLookup(ctx, rec); err != nil {
		o.log.WarnContext(ctx, "record lookup", slog.String("word", rec.Word), slog.String("error", err.Error()))
	}
}

// Dictionaries lists the providers usable for lang: the built-ins that
// support it followed by the local dictionary sources of that language.
func (o *Orchestrator) Dictionaries(ctx context.Context, lang string) ([]string, error) {
	sources, err := o.sources(ctx, lang)
	if err != nil {
		return nil, err
	}
	return o.providers.Available(lang, sources), nil
}

func (o *Orchestrator) sources(ctx context.Context, lang string) ([]domain.Source, error) {
	if o.store == nil {
		return nil, nil
	}
	sources, err := o.store.Sources(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("lookup: list sources: %w", err)
	}
	return sources, nil
}
