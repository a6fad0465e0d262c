package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors of the lookup core. Callers match them with errors.Is.
var (
	ErrUnknownLanguage     = errors.New("unknown language")
	ErrUnsupportedLanguage = errors.New("provider does not support language")
	ErrLookupTimeout       = errors.New("lookup timed out")
	ErrLookupHTTP          = errors.New("lookup http error")
	ErrMalformedResponse   = errors.New("malformed provider response")
	ErrWordNotFoundLocally = errors.New("word not found in local store")
	ErrFrequencyNotFound   = errors.New("frequency not found")
	ErrFrequencyFormat     = errors.New("frequency is not an integer")
	ErrLookupFailed        = errors.New("lookup failed")
)

// HTTPStatusError reports a non-success status from a remote provider.
type HTTPStatusError struct {
	Provider   string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
}

func (e *HTTPStatusError) Unwrap() error { return ErrLookupHTTP }

// LookupFailedError carries the word the caller asked for (before any
// normalization) together with the provider failure.
type LookupFailedError struct {
	Word     string
	Provider string
	Err      error
}

func (e *LookupFailedError) Error() string {
	return fmt.Sprintf("lookup %q in %q: %v", e.Word, e.Provider, e.Err)
}

func (e *LookupFailedError) Unwrap() error { return e.Err }

// Is makes every LookupFailedError match ErrLookupFailed while Unwrap still
// exposes the cause.
func (e *LookupFailedError) Is(target error) bool { return target == ErrLookupFailed }
