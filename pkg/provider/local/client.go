// Package local serves lookups from the keyed local store.
package local

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/provider"
)

// Client answers lookups from a provider.Store, using Query.Source as the
// source name. Stored values are returned as-is as the formatted definition.
type Client struct {
	store provider.Store
	log   *slog.Logger
}

func NewClient(store provider.Store, logger *slog.Logger) *Client {
	return &Client{store: store, log: logger.With("adapter", "local")}
}

func (c *Client) Lookup(ctx context.Context, q provider.Query) (*domain.LookupResult, error) {
	def, err := c.store.Define(ctx, q.Word, q.Lang, q.Source)
	if err != nil {
		c.log.DebugContext(ctx, "local lookup failed",
			slog.String("word", q.Word),
			slog.String("source", q.Source),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("local: %s: %w", q.Source, err)
	}
	return &domain.LookupResult{Word: q.Word, Definition: def}, nil
}

var _ provider.Client = (*Client)(nil)
