// internal/providers/provider.go

// Package providers defines the upstream suggestion sources. Each
// provider returns raw payloads so results can be cached as fetched and
// normalized on the way out.
package providers

import (
	"context"
	"encoding/json"
	"strconv"

	"planpal/internal/models"
)

// Query describes one suggestion request against a provider.
type Query struct {
	Mood         string
	Budget       models.BudgetTier
	Center       *models.Coordinates
	RadiusMeters int
	Term         string
}

// Params flattens the query into string parameters for cache keying.
func (q Query) Params() map[string]string {
	params := map[string]string{
		"mood":   q.Mood,
		"budget": string(q.Budget),
	}
	if q.Center != nil {
		params["lat"] = strconv.FormatFloat(q.Center.Lat, 'f', 4, 64)
		params["lng"] = strconv.FormatFloat(q.Center.Lng, 'f', 4, 64)
	}
	if q.RadiusMeters > 0 {
		params["radius"] = strconv.Itoa(q.RadiusMeters)
	}
	if q.Term != "" {
		params["term"] = q.Term
	}
	return params
}

// Provider is one upstream suggestion source.
//
// Fetch returns raw result payloads suitable for caching. Normalize
// converts raw payloads into suggestions for a group; it never fails,
// skipping entries it cannot parse. Mock returns the provider's canned
// fallback dataset, used when the upstream is unreachable or no API key
// is configured.
type Provider interface {
	Source() models.SourceCategory
	Configured() bool
	Fetch(ctx context.Context, q Query) ([]json.RawMessage, error)
	Normalize(groupCode string, raw []json.RawMessage) []models.Suggestion
	Mock(q Query) []json.RawMessage
}
