package domain

import "context"

// SnapshotStore persists the single reviews snapshot under a fixed key.
// Writes fully replace the stored value.
type SnapshotStore interface {
	Read(ctx context.Context) (raw []byte, ok bool, err error)
	Write(ctx context.Context, raw []byte) error
}

type ReviewsProvider interface {
	// PlaceReviews issues one outbound request; cancelling ctx aborts it.
	PlaceReviews(ctx context.Context, placeID, apiKey string) ([]Review, error)
}

type QuoteRepository interface {
	CreateQuote(ctx context.Context, q QuoteRequest) error
	GetQuote(ctx context.Context, id string) (QuoteRequest, error)
}

type QuoteNotifier interface {
	NotifyQuote(ctx context.Context, q QuoteRequest) error
}
