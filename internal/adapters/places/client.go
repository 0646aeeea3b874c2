// internal/adapters/places/client.go
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/domain"
)

const DefaultBase = "https://maps.googleapis.com/maps/api"

// Client reads place reviews from the Google Places details endpoint.
// One call issues exactly one request; there is no retry.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

var _ domain.ReviewsProvider = (*Client)(nil)

func New(base string, rps int) *Client {
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Result       *struct {
		Reviews []domain.Review `json:"reviews"`
	} `json:"result,omitempty"`
}

func (c *Client) PlaceReviews(ctx context.Context, placeID, apiKey string) ([]domain.Review, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, domain.ErrCancelled
		}
		return nil, err
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "reviews")
	q.Set("key", apiKey)
	u := c.base + "/place/details/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "horizon-web/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", "details", 0, time.Since(start))
		// network error or context canceled
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, domain.ErrCancelled
		}
		return nil, fmt.Errorf("places: request failed: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", "details", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &domain.HTTPStatusError{Code: resp.StatusCode}
	}

	var out detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, domain.ErrCancelled
		}
		return nil, fmt.Errorf("places: decode response: %w", err)
	}

	switch out.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, &domain.ProviderStatusError{Status: out.Status}
	}

	if out.Result == nil || out.Result.Reviews == nil {
		return []domain.Review{}, nil
	}
	return out.Result.Reviews, nil
}
