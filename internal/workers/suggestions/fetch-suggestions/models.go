// internal/workers/suggestions/fetch-suggestions/models.go
package fetchsuggestions

import "planpal/internal/models"

type Input struct {
	Group   models.GroupContext     `json:"group"`
	Sources []models.SourceCategory `json:"sources,omitempty"` // empty means all registered sources
	Term    string                  `json:"term,omitempty"`
}

// Origin says where a source's results came from on this request.
type Origin string

const (
	OriginLive   Origin = "live"
	OriginCached Origin = "cached"
	OriginMock   Origin = "mock"
)

type SourceResult struct {
	Source models.SourceCategory `json:"source"`
	Origin Origin                `json:"origin"`
	Count  int                   `json:"count"`
}

type Output struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	Sources     []SourceResult      `json:"sources"`
}
