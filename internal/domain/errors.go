package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConfigMissing marks the no-credentials mode. It routes to fallback
	// data and is not logged as a failure.
	ErrConfigMissing = errors.New("reviews: place id or api key missing")

	// ErrCancelled means a newer request superseded this one.
	ErrCancelled = errors.New("reviews: fetch cancelled")

	ErrCacheCorrupt = errors.New("reviews: cache entry corrupt")
)

// HTTPStatusError is a non-success transport status from the reviews provider.
type HTTPStatusError struct{ Code int }

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("reviews: provider http status %d", e.Code)
}

// ProviderStatusError is a provider-level status other than OK / ZERO_RESULTS.
type ProviderStatusError struct{ Status string }

func (e *ProviderStatusError) Error() string {
	return "reviews: provider status " + e.Status
}

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}
