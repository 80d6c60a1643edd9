// internal/providers/experiences/experiences.go

// Package experiences serves curated local experiences. There is no
// upstream API for this source; it always answers from its fixed
// catalog, so Configured is always false and the adapter goes straight
// to the mock path.
package experiences

import (
	"context"
	"encoding/json"
	"time"

	stderrors "planpal/internal/common/errors"
	"planpal/internal/models"
	"planpal/internal/providers"
)

type experience struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Tier        string  `json:"tier"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Source() models.SourceCategory {
	return models.SourceExperience
}

func (p *Provider) Configured() bool {
	return false
}

func (p *Provider) Fetch(ctx context.Context, q providers.Query) ([]json.RawMessage, error) {
	return nil, stderrors.NewProviderKeyMissingError(string(p.Source()))
}

func (p *Provider) Normalize(groupCode string, raw []json.RawMessage) []models.Suggestion {
	now := time.Now().UTC()
	out := make([]models.Suggestion, 0, len(raw))
	for _, r := range raw {
		var e experience
		if err := json.Unmarshal(r, &e); err != nil || e.ID == "" {
			continue
		}

		sg := models.Suggestion{
			ID:          models.SuggestionID(groupCode, p.Source(), e.ID),
			GroupCode:   groupCode,
			Source:      p.Source(),
			SourceID:    e.ID,
			Title:       e.Name,
			Description: e.Description,
			Rating:      e.Rating,
			Tier:        models.BudgetTier(e.Tier),
			Raw:         r,
			CreatedAt:   now,
		}
		if e.Lat != 0 || e.Lng != 0 {
			sg.Location = &models.Coordinates{Lat: e.Lat, Lng: e.Lng}
		}
		out = append(out, sg)
	}
	return out
}

func (p *Provider) Mock(q providers.Query) []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"id":"exp-1","name":"Nandi Hills Sunrise Trek","description":"Early morning drive and short hike to the summit viewpoint.","rating":4.4,"tier":"low","lat":13.3702,"lng":77.6835}`),
		json.RawMessage(`{"id":"exp-2","name":"Pottery Workshop","description":"Two hour hands-on wheel throwing session.","rating":4.2,"tier":"medium","lat":12.9352,"lng":77.6245}`),
		json.RawMessage(`{"id":"exp-3","name":"Microbrewery Tour","description":"Guided tasting across three craft breweries.","rating":4.1,"tier":"high","lat":12.9719,"lng":77.6412}`),
	}
}
