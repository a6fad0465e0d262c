package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// DefaultTimeout bounds every remote provider call.
const DefaultTimeout = 4 * time.Second

const maxBodySize = 4 * 1024 * 1024

// NewHTTPClient returns a client with the given timeout, or DefaultTimeout
// when timeout is not positive.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Fetch performs a single GET and returns the body of a 200 response.
// Timeouts map to domain.ErrLookupTimeout and other statuses to
// *domain.HTTPStatusError. There are no retries.
func Fetch(ctx context.Context, client *http.Client, name, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wordlookup/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", name, classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", name, &domain.HTTPStatusError{Provider: name, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", name, classify(err))
	}
	return body, nil
}

// classify tags timeouts with domain.ErrLookupTimeout, keeping the cause.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrLookupTimeout, err)
	}
	return err
}

// Malformed wraps a decoding problem as domain.ErrMalformedResponse.
func Malformed(name string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", name, domain.ErrMalformedResponse, fmt.Sprintf(format, args...))
}
