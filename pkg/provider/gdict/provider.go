// Package gdict looks words up in the monolingual dictionary served by
// dictionaryapi.dev.
package gdict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/provider"
)

const (
	name           = "gdict"
	defaultBaseURL = "https://api.dictionaryapi.dev"
	entriesPath    = "/api/v2/entries/"
)

// Languages is the allow-list of the upstream dictionary.
var Languages = []string{"en", "hi", "es", "fr", "ja", "ru", "de", "it", "ko", "ar", "tr", "pt"}

// upstreamCode rewrites codes the upstream serves under a regional variant.
// Only Brazilian Portuguese is available.
var upstreamCode = map[string]string{
	"pt": "pt-BR",
}

// Provider fetches dictionary data from dictionaryapi.dev.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	allowed    map[string]struct{}
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL selects the public API and
// a zero timeout selects provider.DefaultTimeout.
func NewProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    baseURL,
		httpClient: provider.NewHTTPClient(timeout),
		allowed:    AllowList(),
		log:        logger.With("adapter", name),
	}
}

// AllowList returns Languages as a set, suitable for a provider descriptor.
func AllowList() map[string]struct{} {
	set := make(map[string]struct{}, len(Languages))
	for _, l := range Languages {
		set[l] = struct{}{}
	}
	return set
}

// Lookup fetches q.Word in q.Lang. Languages outside the allow-list fail with
// domain.ErrUnsupportedLanguage before any request is made.
func (p *Provider) Lookup(ctx context.Context, q provider.Query) (*domain.LookupResult, error) {
	if _, ok := p.allowed[q.Lang]; !ok {
		return nil, fmt.Errorf("%s: %q: %w", name, q.Lang, domain.ErrUnsupportedLanguage)
	}

	code := q.Lang
	if c, ok := upstreamCode[code]; ok {
		code = c
	}
	reqURL := p.baseURL + entriesPath + url.PathEscape(code) + "/" + url.PathEscape(q.Word)

	p.log.DebugContext(ctx, "gdict request", slog.String("word", q.Word), slog.String("lang", code))

	body, err := provider.Fetch(ctx, p.httpClient, name, reqURL)
	if err != nil {
		p.log.WarnContext(ctx, "gdict request failed", slog.String("word", q.Word), slog.String("error", err.Error()))
		return nil, err
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, provider.Malformed(name, "decode json: %v", err)
	}
	if len(entries) == 0 {
		return nil, provider.Malformed(name, "empty entry list for %q", q.Word)
	}

	result := &domain.LookupResult{
		Word:        q.Word,
		Definitions: mapMeanings(entries[0].Meanings),
	}

	p.log.DebugContext(ctx, "gdict response",
		slog.String("word", q.Word),
		slog.Int("groups", len(result.Definitions)),
	)
	return result, nil
}

// mapMeanings keeps one entry per meaning group; a missing part of speech
// becomes the empty label.
func mapMeanings(meanings []apiMeaning) []domain.DefinitionEntry {
	entries := make([]domain.DefinitionEntry, 0, len(meanings))
	for _, m := range meanings {
		senses := make([]string, 0, len(m.Definitions))
		for _, d := range m.Definitions {
			senses = append(senses, d.Definition)
		}
		entries = append(entries, domain.DefinitionEntry{
			PartOfSpeech: m.PartOfSpeech,
			Senses:       senses,
		})
	}
	return entries
}

var _ provider.Client = (*Provider)(nil)
