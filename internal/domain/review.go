package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Review is one third-party testimonial as delivered by the reviews provider.
// The pipeline selects among reviews but never edits their fields.
type Review struct {
	Author          string `json:"author_name"`
	Rating          int    `json:"rating"`
	Text            string `json:"text"`
	Time            int64  `json:"time,omitempty"`
	RelativeTime    string `json:"relative_time_description,omitempty"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
}

// CacheEntry is the snapshot of the last successful fetch.
// Reviews is the full unfiltered list as received.
type CacheEntry struct {
	Reviews   []Review
	FetchedAt time.Time
}

// persisted layout: {"reviews": [...], "timestamp": <unix ms>}
type cacheEntryWire struct {
	Reviews   *[]Review `json:"reviews"`
	Timestamp *int64    `json:"timestamp"`
}

func EncodeEntry(e CacheEntry) ([]byte, error) {
	revs := e.Reviews
	if revs == nil {
		revs = []Review{}
	}
	ts := e.FetchedAt.UnixMilli()
	return json.Marshal(cacheEntryWire{Reviews: &revs, Timestamp: &ts})
}

// DecodeEntry parses a persisted snapshot. Anything that is not a complete
// {reviews, timestamp} object yields ErrCacheCorrupt.
func DecodeEntry(raw []byte) (CacheEntry, error) {
	var w cacheEntryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return CacheEntry{}, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if w.Reviews == nil || w.Timestamp == nil {
		return CacheEntry{}, fmt.Errorf("%w: missing reviews or timestamp", ErrCacheCorrupt)
	}
	return CacheEntry{Reviews: *w.Reviews, FetchedAt: time.UnixMilli(*w.Timestamp)}, nil
}
