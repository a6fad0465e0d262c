// Package wiktionary looks words up through the English Wiktionary REST API.
package wiktionary

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/provider"
)

const (
	name           = "wiktionary"
	defaultBaseURL = "https://en.wiktionary.org"
	definitionPath = "/api/rest_v1/page/definition/"
)

// Provider fetches definitions from Wiktionary.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL selects en.wiktionary.org
// and a zero timeout selects provider.DefaultTimeout.
func NewProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    baseURL,
		httpClient: provider.NewHTTPClient(timeout),
		log:        logger.With("adapter", name),
	}
}

// Lookup requests the definitions of q.Word and keeps the q.Lang section.
func (p *Provider) Lookup(ctx context.Context, q provider.Query) (*domain.LookupResult, error) {
	reqURL := p.baseURL + definitionPath + url.PathEscape(q.Word)

	p.log.DebugContext(ctx, "wiktionary request", slog.String("word", q.Word), slog.String("lang", q.Lang))

	body, err := provider.Fetch(ctx, p.httpClient, name, reqURL)
	if err != nil {
		p.log.WarnContext(ctx, "wiktionary request failed", slog.String("word", q.Word), slog.String("error", err.Error()))
		return nil, err
	}

	var byLang map[string]json.RawMessage
	if err := json.Unmarshal(body, &byLang); err != nil {
		return nil, provider.Malformed(name, "decode json: %v", err)
	}
	raw, ok := byLang[q.Lang]
	if !ok {
		return nil, provider.Malformed(name, "no %q section for %q", q.Lang, q.Word)
	}
	var usages []apiUsage
	if err := json.Unmarshal(raw, &usages); err != nil {
		return nil, provider.Malformed(name, "decode %q section: %v", q.Lang, err)
	}

	result := &domain.LookupResult{
		Word:        q.Word,
		Definitions: mapUsages(usages),
	}

	p.log.DebugContext(ctx, "wiktionary response",
		slog.String("word", q.Word),
		slog.Int("groups", len(result.Definitions)),
	)
	return result, nil
}

func mapUsages(usages []apiUsage) []domain.DefinitionEntry {
	entries := make([]domain.DefinitionEntry, 0, len(usages))
	for _, u := range usages {
		senses := make([]string, 0, len(u.Definitions))
		for _, d := range u.Definitions {
			if text := StripHTML(d.Definition); text != "" {
				senses = append(senses, text)
			}
		}
		entries = append(entries, domain.DefinitionEntry{
			PartOfSpeech: u.PartOfSpeech,
			Senses:       senses,
		})
	}
	return entries
}

var _ provider.Client = (*Provider)(nil)
