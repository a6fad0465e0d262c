package lookup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/provider"
)

// FrequencyResolver reads word frequencies from frequency-list sources of the
// local store.
type FrequencyResolver struct {
	store      provider.Store
	lemmatizer Lemmatizer
}

func NewFrequencyResolver(store provider.Store, lemmatizer Lemmatizer) *FrequencyResolver {
	return &FrequencyResolver{store: store, lemmatizer: lemmatizer}
}

// Resolve returns the frequency of word in the named list. The word is
// optionally lemmatized and always lowercased before the lookup.
func (r *FrequencyResolver) Resolve(ctx context.Context, word, lang string, lemmatizeFirst bool, source string) (int, error) {
	if lemmatizeFirst && r.lemmatizer != nil {
		word = r.lemmatizer.Lemmatize(word, lang)
	}
	word = strings.ToLower(word)

	raw, err := r.store.Define(ctx, word, lang, source)
	if err != nil {
		if errors.Is(err, domain.ErrWordNotFoundLocally) {
			return 0, fmt.Errorf("frequency %q in %q: %w", word, source, domain.ErrFrequencyNotFound)
		}
		return 0, fmt.Errorf("frequency %q in %q: %w", word, source, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("frequency %q in %q: %w: %q", word, source, domain.ErrFrequencyFormat, raw)
	}
	return n, nil
}

// Lists returns the names of the frequency lists available for lang.
func (r *FrequencyResolver) Lists(ctx context.Context, lang string) ([]string, error) {
	sources, err := r.store.Sources(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("lookup: list sources: %w", err)
	}
	return provider.FrequencyLists(lang, sources), nil
}
