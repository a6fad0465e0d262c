// Package translate translates single words through the public Google
// translate web endpoint.
package translate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/provider"
)

const (
	name           = "gtrans"
	defaultBaseURL = "https://translate.googleapis.com"
	translatePath  = "/translate_a/single"
)

// Provider calls the translate endpoint.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL selects the public
// endpoint and a zero timeout selects provider.DefaultTimeout.
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

// Lookup translates q.Word from q.Lang into q.Target. The result carries a
// single unlabeled sense; Definition is the raw translation.
func (p *Provider) Lookup(ctx context.Context, q provider.Query) (*domain.LookupResult, error) {
	target, err := TargetCode(q.Target)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", q.Lang)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", q.Word)
	reqURL := p.baseURL + translatePath + "?" + params.Encode()

	p.log.DebugContext(ctx, "translate request",
		slog.String("word", q.Word),
		slog.String("from", q.Lang),
		slog.String("to", target),
	)

	body, err := provider.Fetch(ctx, p.httpClient, name, reqURL)
	if err != nil {
		p.log.WarnContext(ctx, "translate request failed", slog.String("word", q.Word), slog.String("error", err.Error()))
		return nil, err
	}

	text, err := parseTranslation(body)
	if err != nil {
		return nil, err
	}

	return &domain.LookupResult{
		Word:        q.Word,
		Definitions: []domain.DefinitionEntry{{Senses: []string{text}}},
		Definition:  text,
	}, nil
}

// parseTranslation joins the translated segments of a gtx response:
// [[["translated","source",...],...],null,"en",...].
func parseTranslation(body []byte) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", provider.Malformed(name, "decode json: %v", err)
	}
	if len(top) == 0 {
		return "", provider.Malformed(name, "empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", provider.Malformed(name, "decode segments: %v", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", provider.Malformed(name, "no translated text")
	}
	return sb.String(), nil
}

var _ provider.Client = (*Provider)(nil)
