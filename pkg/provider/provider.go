// Package provider defines the definition-source contract shared by the
// remote dictionaries, the translator and the local store.
package provider

import (
	"context"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// Names of the built-in providers. Any other name refers to a local store
// source.
const (
	NameWiktionary       = "Wiktionary (English)"
	NameGoogleDictionary = "Google dictionary (Monolingual)"
	NameGoogleTranslate  = "Google translate"
)

// Query is a single lookup request to a provider. Word is already
// normalized; Target is the translation display language and Source the
// local store source name, each used only by the provider kind that needs it.
type Query struct {
	Word   string
	Lang   string
	Target string
	Source string
}

// Client answers lookups for one kind of provider.
type Client interface {
	Lookup(ctx context.Context, q Query) (*domain.LookupResult, error)
}

// Store is the keyed local dictionary and frequency store.
type Store interface {
	// Define returns the stored value for word in the named source, or an
	// error matching domain.ErrWordNotFoundLocally.
	Define(ctx context.Context, word, lang, source string) (string, error)
	// Sources lists the catalog; an empty lang lists every language.
	Sources(ctx context.Context, lang string) ([]domain.Source, error)
}
