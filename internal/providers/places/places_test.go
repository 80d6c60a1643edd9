// internal/providers/places/places_test.go
package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planpal/internal/common/config"
	stderrors "planpal/internal/common/errors"
	httpclient "planpal/internal/common/http"
	"planpal/internal/models"
	"planpal/internal/providers"
)

func newTestProvider(baseURL, apiKey string) *Provider {
	cfg := config.PlacesConfig{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		RadiusMeters: 5000,
		Timeout:      2000,
	}
	return New(cfg, httpclient.NewClient(2*time.Second))
}

func TestPlaceType(t *testing.T) {
	tests := []struct {
		mood string
		want string
	}{
		{"adventurous", "tourist_attraction"},
		{"chill", "cafe"},
		{"romantic", "restaurant"},
		{"foodie", "restaurant"},
		{"fun_getaway", "amusement_park"},
		{"unknown-mood", "point_of_interest"},
		{"", "point_of_interest"},
	}

	for _, tt := range tests {
		t.Run(tt.mood, func(t *testing.T) {
			assert.Equal(t, tt.want, placeType(tt.mood))
		})
	}
}

func TestPriceTier(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	assert.Equal(t, models.TierUnknown, priceTier(nil))
	assert.Equal(t, models.TierLow, priceTier(intPtr(0)))
	assert.Equal(t, models.TierLow, priceTier(intPtr(1)))
	assert.Equal(t, models.TierMedium, priceTier(intPtr(2)))
	assert.Equal(t, models.TierHigh, priceTier(intPtr(3)))
	assert.Equal(t, models.TierHigh, priceTier(intPtr(4)))
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key fails without calling upstream", func(t *testing.T) {
		p := newTestProvider("http://unused", "")

		_, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeProviderKeyMissing, stdErr.Code)
	})

	t.Run("successful fetch returns raw results", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"type":   r.URL.Query().Get("type"),
				"radius": r.URL.Query().Get("radius"),
				"key":    r.URL.Query().Get("key"),
			}
			w.Write([]byte(`{"results":[{"place_id":"p1","name":"Cubbon Park","rating":4.5}]}`))
		}))
		defer server.Close()

		p := newTestProvider(server.URL, "test-key")
		raw, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.NoError(t, err)
		assert.Len(t, raw, 1)
		assert.Equal(t, "cafe", gotQuery["type"])
		assert.Equal(t, "5000", gotQuery["radius"])
		assert.Equal(t, "test-key", gotQuery["key"])
	})

	t.Run("non-2xx status is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		p := newTestProvider(server.URL, "test-key")
		_, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeProviderUnavailable, stdErr.Code)
	})

	t.Run("malformed payload is a malformed response error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"OK"}`))
		}))
		defer server.Close()

		p := newTestProvider(server.URL, "test-key")
		_, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeMalformedResponse, stdErr.Code)
	})

	t.Run("slow upstream is a timeout error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		cfg := config.PlacesConfig{BaseURL: server.URL, APIKey: "test-key", RadiusMeters: 5000}
		p := New(cfg, httpclient.NewClient(50*time.Millisecond))

		_, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeProviderTimeout, stdErr.Code)
	})
}

func TestNormalize(t *testing.T) {
	p := newTestProvider("http://unused", "k")

	t.Run("full payload maps all fields", func(t *testing.T) {
		got := p.Normalize("g1", p.Mock(providers.Query{}))
		require.Len(t, got, 4)

		first := got[0]
		assert.Equal(t, "Cubbon Park", first.Title)
		assert.Equal(t, models.SourcePlace, first.Source)
		assert.Equal(t, "g1", first.GroupCode)
		assert.Equal(t, 4.5, first.Rating)
		assert.Equal(t, models.TierLow, first.Tier)
		require.NotNil(t, first.Location)
		assert.InDelta(t, 12.9763, first.Location.Lat, 0.0001)
		assert.NotEmpty(t, first.Raw)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("same input yields the same suggestion ids", func(t *testing.T) {
		a := p.Normalize("g1", p.Mock(providers.Query{}))
		b := p.Normalize("g1", p.Mock(providers.Query{}))
		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].ID, b[i].ID)
		}
	})

	t.Run("unparseable entries are skipped", func(t *testing.T) {
		raw := p.Mock(providers.Query{})
		raw = append(raw, []byte(`not json`), []byte(`{"name":"no place id"}`))

		got := p.Normalize("g1", raw)
		assert.Len(t, got, 4)
	})
}
