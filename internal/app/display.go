package app

import "horizon_web/internal/domain"

// Display keeps reviews rated at or above minRating, in input order, capped
// to limit. The input slice is left untouched.
func Display(in []domain.Review, minRating, limit int) []domain.Review {
	if limit < 0 {
		limit = 0
	}
	out := make([]domain.Review, 0, min(len(in), limit))
	for _, r := range in {
		if len(out) >= limit {
			break
		}
		if r.Rating >= minRating {
			out = append(out, r)
		}
	}
	return out
}
