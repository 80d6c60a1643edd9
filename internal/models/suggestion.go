// internal/models/suggestion.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SourceCategory identifies which external provider a suggestion came from.
type SourceCategory string

const (
	SourcePlace      SourceCategory = "place"
	SourceMovie      SourceCategory = "movie"
	SourceExperience SourceCategory = "experience"
)

// IsValid reports whether the category is one of the known sources.
func (c SourceCategory) IsValid() bool {
	switch c {
	case SourcePlace, SourceMovie, SourceExperience:
		return true
	}
	return false
}

// BudgetTier is the coarse price classification used for budget-fit scoring.
type BudgetTier string

const (
	TierUnknown BudgetTier = ""
	TierLow     BudgetTier = "low"
	TierMedium  BudgetTier = "medium"
	TierHigh    BudgetTier = "high"
)

// Level returns the ordinal position of the tier (low=0, medium=1, high=2)
// or -1 when the tier is unknown.
func (t BudgetTier) Level() int {
	switch t {
	case TierLow:
		return 0
	case TierMedium:
		return 1
	case TierHigh:
		return 2
	}
	return -1
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Suggestion is a normalized candidate place, movie or experience.
// Instances are immutable once stored; vote tallies live in GroupContext.
type Suggestion struct {
	ID          string          `json:"id"`
	GroupCode   string          `json:"groupCode"`
	Source      SourceCategory  `json:"source"`
	SourceID    string          `json:"sourceId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Rating      float64         `json:"rating,omitempty"` // 0..5, 0 means unrated
	Tier        BudgetTier      `json:"tier,omitempty"`
	Location    *Coordinates    `json:"location,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SuggestionID derives a stable per-group identifier so that refetching the
// same provider result upserts instead of duplicating.
func SuggestionID(groupCode string, source SourceCategory, sourceID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(groupCode+":"+string(source)+":"+sourceID)).String()
}
