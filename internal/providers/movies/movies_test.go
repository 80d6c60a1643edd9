// internal/providers/movies/movies_test.go
package movies

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
	cfg := config.MoviesConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 2000,
	}
	return New(cfg, httpclient.NewClient(2*time.Second))
}

func TestGenreFor(t *testing.T) {
	tests := []struct {
		mood string
		want int
	}{
		{"adventurous", 12},
		{"chill", 35},
		{"romantic", 10749},
		{"foodie", 99},
		{"fun_getaway", 16},
		{"unknown-mood", 28},
		{"", 28},
	}

	for _, tt := range tests {
		t.Run(tt.mood, func(t *testing.T) {
			assert.Equal(t, tt.want, genreFor(tt.mood))
		})
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key fails without calling upstream", func(t *testing.T) {
		p := newTestProvider("http://unused", "")

		_, err := p.Fetch(ctx, providers.Query{Mood: "romantic"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeProviderKeyMissing, stdErr.Code)
	})

	t.Run("successful fetch sends genre and sort order", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"with_genres": r.URL.Query().Get("with_genres"),
				"sort_by":     r.URL.Query().Get("sort_by"),
				"api_key":     r.URL.Query().Get("api_key"),
			}
			w.Write([]byte(`{"results":[{"id":1,"title":"Queen","vote_average":7.8}]}`))
		}))
		defer server.Close()

		p := newTestProvider(server.URL, "test-key")
		raw, err := p.Fetch(ctx, providers.Query{Mood: "romantic"})
		require.NoError(t, err)
		assert.Len(t, raw, 1)
		assert.Equal(t, "10749", gotQuery["with_genres"])
		assert.Equal(t, "popularity.desc", gotQuery["sort_by"])
		assert.Equal(t, "test-key", gotQuery["api_key"])
	})

	t.Run("malformed payload is a malformed response error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"page":1}`))
		}))
		defer server.Close()

		p := newTestProvider(server.URL, "test-key")
		_, err := p.Fetch(ctx, providers.Query{Mood: "chill"})
		require.Error(t, err)

		var stdErr *stderrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, stderrors.ErrCodeMalformedResponse, stdErr.Code)
	})
}

func TestNormalize(t *testing.T) {
	p := newTestProvider("http://unused", "k")

	t.Run("vote average converts to a five point rating", func(t *testing.T) {
		got := p.Normalize("g1", p.Mock(providers.Query{}))
		require.Len(t, got, 4)

		first := got[0]
		assert.Equal(t, "Zindagi Na Milegi Dobara", first.Title)
		assert.InDelta(t, 4.05, first.Rating, 0.001)
		assert.Equal(t, models.SourceMovie, first.Source)
		assert.Equal(t, models.TierLow, first.Tier)
		assert.Nil(t, first.Location)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("entries without an id are skipped", func(t *testing.T) {
		raw := p.Mock(providers.Query{})
		raw = append(raw, []byte(`{"title":"no id"}`))

		got := p.Normalize("g1", raw)
		assert.Len(t, got, 4)
	})
}
