package domain_test

import (
	"errors"
	"testing"
	"time"

	"horizon_web/internal/domain"
)

func TestEncodeDecodeEntry_Layout(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	raw, err := domain.EncodeEntry(domain.CacheEntry{
		Reviews:   []domain.Review{{Author: "Ana", Rating: 5, Text: "great", RelativeTime: "a week ago"}},
		FetchedAt: at,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"reviews":[{"author_name":"Ana","rating":5,"text":"great","relative_time_description":"a week ago"}],"timestamp":1700000000123}`
	if string(raw) != want {
		t.Fatalf("unexpected layout:\n got %s\nwant %s", raw, want)
	}

	e, err := domain.DecodeEntry(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !e.FetchedAt.Equal(at) || len(e.Reviews) != 1 || e.Reviews[0].Author != "Ana" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestEncodeEntry_NilReviewsIsEmptyArray(t *testing.T) {
	raw, err := domain.EncodeEntry(domain.CacheEntry{FetchedAt: time.UnixMilli(5)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != `{"reviews":[],"timestamp":5}` {
		t.Fatalf("got %s", raw)
	}
}

func TestDecodeEntry_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":          `{{{`,
		"empty object":      `{}`,
		"missing timestamp": `{"reviews":[]}`,
		"missing reviews":   `{"timestamp":1}`,
		"reviews wrong":     `{"reviews":"nope","timestamp":1}`,
		"timestamp wrong":   `{"reviews":[],"timestamp":"soon"}`,
		"array":             `[1,2,3]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.DecodeEntry([]byte(raw))
			if !errors.Is(err, domain.ErrCacheCorrupt) {
				t.Fatalf("expected ErrCacheCorrupt, got %v", err)
			}
		})
	}
}
