// internal/providers/places/places.go

// Package places fetches venue suggestions from the Google Places
// nearby search API.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"planpal/internal/common/config"
	stderrors "planpal/internal/common/errors"
	httpclient "planpal/internal/common/http"
	"planpal/internal/common/validation"
	"planpal/internal/models"
	"planpal/internal/providers"
)

// moodTypes maps a group mood to the place type searched for.
var moodTypes = map[string]string{
	"adventurous": "tourist_attraction",
	"chill":       "cafe",
	"romantic":    "restaurant",
	"foodie":      "restaurant",
	"fun_getaway": "amusement_park",
}

const defaultType = "point_of_interest"

const responseSchema = `{
	"type": "object",
	"required": ["results"],
	"properties": {
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["place_id", "name"]
			}
		}
	}
}`

type place struct {
	PlaceID    string  `json:"place_id"`
	Name       string  `json:"name"`
	Vicinity   string  `json:"vicinity"`
	Rating     float64 `json:"rating"`
	PriceLevel *int    `json:"price_level"`
	Geometry   struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type Provider struct {
	cfg    config.PlacesConfig
	client *httpclient.Client
}

func New(cfg config.PlacesConfig, client *httpclient.Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Source() models.SourceCategory {
	return models.SourcePlace
}

func (p *Provider) Configured() bool {
	return p.cfg.APIKey != ""
}

func (p *Provider) Fetch(ctx context.Context, q providers.Query) ([]json.RawMessage, error) {
	if !p.Configured() {
		return nil, stderrors.NewProviderKeyMissingError(string(p.Source()))
	}

	center := q.Center
	if center == nil {
		c := models.DefaultCenter
		center = &c
	}
	radius := q.RadiusMeters
	if radius <= 0 {
		radius = p.cfg.RadiusMeters
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", center.Lat, center.Lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("type", placeType(q.Mood))
	params.Set("key", p.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, stderrors.NewProviderUnavailableError(string(p.Source()), err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, stderrors.NewProviderTimeoutError(string(p.Source()))
		}
		return nil, stderrors.NewProviderUnavailableError(string(p.Source()), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, stderrors.NewProviderUnavailableError(string(p.Source()),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stderrors.NewProviderUnavailableError(string(p.Source()), err)
	}

	if err := validation.Validate(responseSchema, body); err != nil {
		return nil, stderrors.NewMalformedResponseError(string(p.Source()), err)
	}

	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, stderrors.NewMalformedResponseError(string(p.Source()), err)
	}

	return envelope.Results, nil
}

func (p *Provider) Normalize(groupCode string, raw []json.RawMessage) []models.Suggestion {
	now := time.Now().UTC()
	out := make([]models.Suggestion, 0, len(raw))
	for _, r := range raw {
		var pl place
		if err := json.Unmarshal(r, &pl); err != nil || pl.PlaceID == "" {
			continue
		}

		sg := models.Suggestion{
			ID:          models.SuggestionID(groupCode, p.Source(), pl.PlaceID),
			GroupCode:   groupCode,
			Source:      p.Source(),
			SourceID:    pl.PlaceID,
			Title:       pl.Name,
			Description: pl.Vicinity,
			Rating:      pl.Rating,
			Tier:        priceTier(pl.PriceLevel),
			Raw:         r,
			CreatedAt:   now,
		}
		if pl.Geometry.Location.Lat != 0 || pl.Geometry.Location.Lng != 0 {
			sg.Location = &models.Coordinates{
				Lat: pl.Geometry.Location.Lat,
				Lng: pl.Geometry.Location.Lng,
			}
		}
		out = append(out, sg)
	}
	return out
}

// Mock returns the fixed fallback dataset served when the upstream is
// unreachable or no API key is configured.
func (p *Provider) Mock(q providers.Query) []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"place_id":"mock-place-1","name":"Cubbon Park","vicinity":"Kasturba Road, Bengaluru","rating":4.5,"price_level":0,"geometry":{"location":{"lat":12.9763,"lng":77.5929}}}`),
		json.RawMessage(`{"place_id":"mock-place-2","name":"Wonderla","vicinity":"Mysore Road, Bengaluru","rating":4.3,"price_level":3,"geometry":{"location":{"lat":12.8343,"lng":77.4010}}}`),
		json.RawMessage(`{"place_id":"mock-place-3","name":"Cafe Coffee Day","vicinity":"MG Road, Bengaluru","rating":4.0,"price_level":1,"geometry":{"location":{"lat":12.9758,"lng":77.6063}}}`),
		json.RawMessage(`{"place_id":"mock-place-4","name":"Lalbagh Botanical Garden","vicinity":"Mavalli, Bengaluru","rating":4.6,"price_level":0,"geometry":{"location":{"lat":12.9507,"lng":77.5848}}}`),
	}
}

func placeType(mood string) string {
	if t, ok := moodTypes[mood]; ok {
		return t
	}
	return defaultType
}

// priceTier maps the Google price_level scale (0..4) to a budget tier.
// An absent level leaves the tier unknown.
func priceTier(level *int) models.BudgetTier {
	if level == nil {
		return models.TierUnknown
	}
	switch {
	case *level <= 1:
		return models.TierLow
	case *level == 2:
		return models.TierMedium
	default:
		return models.TierHigh
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
