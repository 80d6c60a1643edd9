// internal/providers/movies/movies.go

// Package movies fetches movie-night suggestions from the TMDb discover
// API.
package movies

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

// moodGenres maps a group mood to a TMDb genre id.
var moodGenres = map[string]int{
	"adventurous": 12,    // Adventure
	"chill":       35,    // Comedy
	"romantic":    10749, // Romance
	"foodie":      99,    // Documentary
	"fun_getaway": 16,    // Animation
}

const defaultGenre = 28 // Action

const responseSchema = `{
	"type": "object",
	"required": ["results"],
	"properties": {
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title"]
			}
		}
	}
}`

type movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

type Provider struct {
	cfg    config.MoviesConfig
	client *httpclient.Client
}

func New(cfg config.MoviesConfig, client *httpclient.Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Source() models.SourceCategory {
	return models.SourceMovie
}

func (p *Provider) Configured() bool {
	return p.cfg.APIKey != ""
}

func (p *Provider) Fetch(ctx context.Context, q providers.Query) ([]json.RawMessage, error) {
	if !p.Configured() {
		return nil, stderrors.NewProviderKeyMissingError(string(p.Source()))
	}

	params := url.Values{}
	params.Set("api_key", p.cfg.APIKey)
	params.Set("with_genres", strconv.Itoa(genreFor(q.Mood)))
	params.Set("sort_by", "popularity.desc")

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
		var m movie
		if err := json.Unmarshal(r, &m); err != nil || m.ID == 0 {
			continue
		}

		sourceID := strconv.Itoa(m.ID)
		out = append(out, models.Suggestion{
			ID:          models.SuggestionID(groupCode, p.Source(), sourceID),
			GroupCode:   groupCode,
			Source:      p.Source(),
			SourceID:    sourceID,
			Title:       m.Title,
			Description: m.Overview,
			Rating:      m.VoteAverage / 2, // TMDb rates on a 10-point scale
			Tier:        models.TierLow,    // a movie night costs about the same everywhere
			Raw:         r,
			CreatedAt:   now,
		})
	}
	return out
}

// Mock returns the fixed fallback dataset served when the upstream is
// unreachable or no API key is configured.
func (p *Provider) Mock(q providers.Query) []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"id":900001,"title":"Zindagi Na Milegi Dobara","overview":"Three friends on a road trip across Spain.","vote_average":8.1}`),
		json.RawMessage(`{"id":900002,"title":"Dil Chahta Hai","overview":"Three inseparable friends and the year that changes them.","vote_average":8.0}`),
		json.RawMessage(`{"id":900003,"title":"Queen","overview":"A solo honeymoon turns into a journey of self-discovery.","vote_average":7.8}`),
		json.RawMessage(`{"id":900004,"title":"3 Idiots","overview":"Two friends search for their long-lost college companion.","vote_average":8.4}`),
	}
}

func genreFor(mood string) int {
	if g, ok := moodGenres[mood]; ok {
		return g
	}
	return defaultGenre
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
