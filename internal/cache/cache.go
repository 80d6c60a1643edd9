// internal/cache/cache.go

// Package cache holds raw provider results keyed by source and query so
// repeated fetches inside the freshness window skip the upstream call.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Entry is one cached provider response. Results are stored raw so a hit
// can be re-normalized without another upstream round trip.
type Entry struct {
	Results   []json.RawMessage `json:"results"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Fresh reports whether the entry is still inside the freshness window.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Cache is the suggestion result cache. Get returns (nil, nil) on a miss;
// an expired entry counts as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry *Entry) error
}

// Key builds a deterministic cache key from a source name and query
// parameters. Parameter order never matters: keys are canonicalized by
// trimming, lowercasing, and sorting before hashing.
func Key(source string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(strings.ToLower(strings.TrimSpace(k)))
		b.WriteByte('=')
		b.WriteString(strings.ToLower(strings.TrimSpace(params[k])))
	}

	sum := md5.Sum([]byte(b.String()))
	return "suggestions:" + strings.ToLower(strings.TrimSpace(source)) + ":" + hex.EncodeToString(sum[:])
}
