package app

import (
	"encoding/json"
	"fmt"
	"os"

	"horizon_web/internal/domain"
)

// Fallback serves a fixed set of sample reviews when live data is unavailable.
type Fallback struct{ reviews []domain.Review }

func NewFallback(reviews []domain.Review) *Fallback {
	if len(reviews) == 0 {
		reviews = DefaultFallbackReviews()
	}
	return &Fallback{reviews: append([]domain.Review(nil), reviews...)}
}

// Get returns a fresh copy so callers cannot disturb the shared set.
func (f *Fallback) Get() []domain.Review {
	return append([]domain.Review(nil), f.reviews...)
}

func DefaultFallbackReviews() []domain.Review {
	return []domain.Review{
		{
			Author:       "Sarah M.",
			Rating:       5,
			Text:         "Horizon transformed our online presence completely. The new website has doubled our leads in just three months.",
			RelativeTime: "2 months ago",
		},
		{
			Author:       "John D.",
			Rating:       5,
			Text:         "Professional, responsive, and incredibly talented. They delivered exactly what we envisioned and more.",
			RelativeTime: "1 month ago",
		},
		{
			Author:       "Emma L.",
			Rating:       5,
			Text:         "The team's attention to detail and commitment to quality is unmatched. Highly recommend their services.",
			RelativeTime: "3 weeks ago",
		},
	}
}

// LoadFallbackFile reads a JSON array of reviews. An empty path returns the
// built-in set.
func LoadFallbackFile(path string) ([]domain.Review, error) {
	if path == "" {
		return DefaultFallbackReviews(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback reviews: %w", err)
	}
	var out []domain.Review
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse fallback reviews %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fallback reviews %s: empty set", path)
	}
	for i, r := range out {
		if r.Rating < MinRatingThreshold {
			return nil, fmt.Errorf("fallback reviews %s: entry %d rated %d, below %d", path, i, r.Rating, MinRatingThreshold)
		}
	}
	return out, nil
}
