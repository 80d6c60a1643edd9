// internal/workers/suggestions/rank-suggestions/handler_test.go
package ranksuggestions

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planpal/internal/common/logger"
	"planpal/internal/models"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func suggestion(id, title string, rating float64, tier models.BudgetTier, loc *models.Coordinates) models.Suggestion {
	return models.Suggestion{
		ID:        id,
		GroupCode: "g1",
		Source:    models.SourcePlace,
		SourceID:  id,
		Title:     title,
		Rating:    rating,
		Tier:      tier,
		Location:  loc,
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("missing group code is rejected", func(t *testing.T) {
		h := createTestHandler(t)
		_, err := h.Execute(ctx, &Input{})
		assert.Error(t, err)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		h := createTestHandler(t)
		out, err := h.Execute(ctx, &Input{Group: models.GroupContext{GroupCode: "g1"}})
		require.NoError(t, err)
		assert.Empty(t, out.Results)
	})

	t.Run("worked example", func(t *testing.T) {
		h := createTestHandler(t)

		member := models.Coordinates{Lat: 12.9716, Lng: 77.5946}
		// 5 km due north of the member
		loc := &models.Coordinates{Lat: member.Lat + 0.0449679, Lng: member.Lng}

		input := &Input{
			Group: models.GroupContext{
				GroupCode:       "g1",
				Budget:          models.TierLow,
				MemberLocations: []models.Coordinates{member},
				Votes:           map[string]int{"s1": 10, "s2": 20},
			},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Cubbon Park", 4.5, models.TierLow, loc),
				suggestion("s2", "Wonderla", 0, models.TierHigh, nil),
			},
		}

		out, err := h.Execute(ctx, input)
		require.NoError(t, err)
		require.Len(t, out.Results, 2)

		top := out.Results[0]
		assert.Equal(t, "s1", top.Suggestion.ID)
		assert.InDelta(t, 0.9, top.Breakdown.Rating, 0.001)
		assert.InDelta(t, 1.0, top.Breakdown.Budget, 0.001)
		assert.InDelta(t, 0.5, top.Breakdown.Votes, 0.001)
		assert.InDelta(t, 0.8, top.Breakdown.Proximity, 0.001)
		assert.InDelta(t, 0.83, top.Score, 0.001)
	})

	t.Run("output is a permutation of the input", func(t *testing.T) {
		h := createTestHandler(t)

		var suggestions []models.Suggestion
		for i := 0; i < 10; i++ {
			suggestions = append(suggestions,
				suggestion(fmt.Sprintf("s%d", i), fmt.Sprintf("Place %d", i), float64(i%6), models.TierLow, nil))
		}

		out, err := h.Execute(ctx, &Input{
			Group:       models.GroupContext{GroupCode: "g1"},
			Suggestions: suggestions,
		})
		require.NoError(t, err)
		require.Len(t, out.Results, len(suggestions))

		seen := make(map[string]bool)
		for _, r := range out.Results {
			seen[r.Suggestion.ID] = true
		}
		assert.Len(t, seen, len(suggestions))
	})

	t.Run("results are ordered best first", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1", Budget: models.TierLow},
			Suggestions: []models.Suggestion{
				suggestion("low", "Meh", 2.0, models.TierLow, nil),
				suggestion("high", "Great", 4.8, models.TierLow, nil),
			},
		})
		require.NoError(t, err)
		require.Len(t, out.Results, 2)
		assert.Equal(t, "high", out.Results[0].Suggestion.ID)
		assert.GreaterOrEqual(t, out.Results[0].Score, out.Results[1].Score)
	})

	t.Run("equal scores keep input order", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1", Budget: models.TierLow},
			Suggestions: []models.Suggestion{
				suggestion("a", "First", 4.0, models.TierLow, nil),
				suggestion("b", "Second", 4.0, models.TierLow, nil),
				suggestion("c", "Third", 4.0, models.TierLow, nil),
			},
		})
		require.NoError(t, err)
		require.Len(t, out.Results, 3)
		assert.Equal(t, "a", out.Results[0].Suggestion.ID)
		assert.Equal(t, "b", out.Results[1].Suggestion.ID)
		assert.Equal(t, "c", out.Results[2].Suggestion.ID)
	})

	t.Run("rating above scale clamps to one", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1"},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Overrated", 9.9, models.TierUnknown, nil),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, out.Results[0].Breakdown.Rating)
	})

	t.Run("unrated suggestion scores zero on rating", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1"},
			Suggestions: []models.Suggestion{
				suggestion("s1", "New Spot", 0, models.TierUnknown, nil),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.Results[0].Breakdown.Rating)
	})

	t.Run("proximity uses the nearest member, not the average", func(t *testing.T) {
		h := createTestHandler(t)

		memberA := models.Coordinates{Lat: 12.9716, Lng: 77.5946}
		memberB := models.Coordinates{Lat: 13.1986, Lng: 77.7066} // ~28 km from A

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{
				GroupCode:       "g1",
				MemberLocations: []models.Coordinates{memberA, memberB},
			},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Cubbon Park", 4.0, models.TierUnknown, &memberA),
			},
		})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, out.Results[0].Breakdown.Proximity, 0.001)
	})

	t.Run("suggestion past the distance limit scores zero proximity", func(t *testing.T) {
		h := createTestHandler(t)

		member := models.Coordinates{Lat: 12.9716, Lng: 77.5946}
		farAway := &models.Coordinates{Lat: 19.0760, Lng: 72.8777} // Mumbai

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{
				GroupCode:       "g1",
				MemberLocations: []models.Coordinates{member},
			},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Road Trip", 4.0, models.TierUnknown, farAway),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.Results[0].Breakdown.Proximity)
	})

	t.Run("no member locations gives neutral proximity", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1"},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Cubbon Park", 4.0, models.TierUnknown,
					&models.Coordinates{Lat: 12.9763, Lng: 77.5929}),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.5, out.Results[0].Breakdown.Proximity)
	})

	t.Run("suggestion without a location gives neutral proximity", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{
				GroupCode:       "g1",
				MemberLocations: []models.Coordinates{{Lat: 12.9716, Lng: 77.5946}},
			},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Queen", 3.9, models.TierLow, nil),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.5, out.Results[0].Breakdown.Proximity)
	})

	t.Run("no votes at all scores zero without dividing by zero", func(t *testing.T) {
		h := createTestHandler(t)

		out, err := h.Execute(ctx, &Input{
			Group: models.GroupContext{GroupCode: "g1"},
			Suggestions: []models.Suggestion{
				suggestion("s1", "Cubbon Park", 4.0, models.TierUnknown, nil),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.Results[0].Breakdown.Votes)
	})
}

func TestBudgetMatch(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name   string
		budget models.BudgetTier
		tier   models.BudgetTier
		want   float64
	}{
		{"exact fit", models.TierLow, models.TierLow, 1.0},
		{"one tier over", models.TierLow, models.TierMedium, 0.5},
		{"two tiers over", models.TierLow, models.TierHigh, 0.1},
		{"under budget", models.TierHigh, models.TierLow, 0.1},
		{"unknown tier fits anything", models.TierLow, models.TierUnknown, 1.0},
		{"unknown budget defaults to medium", models.TierUnknown, models.TierMedium, 1.0},
		{"unknown budget one over", models.TierUnknown, models.TierHigh, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.budgetMatch(tt.budget, tt.tier))
		})
	}
}

func TestHaversineKm(t *testing.T) {
	// Bengaluru city center to the airport, roughly 32 km.
	a := models.Coordinates{Lat: 12.9716, Lng: 77.5946}
	b := models.Coordinates{Lat: 13.1986, Lng: 77.7066}

	assert.InDelta(t, 28, haversineKm(a, b), 2)
	assert.Equal(t, 0.0, haversineKm(a, a))
}

func BenchmarkExecute(b *testing.B) {
	h := NewHandler(LoadConfig(), logger.NewNoOpLogger())

	var suggestions []models.Suggestion
	for i := 0; i < 100; i++ {
		suggestions = append(suggestions,
			suggestion(fmt.Sprintf("s%d", i), "Place", float64(i%6), models.TierLow,
				&models.Coordinates{Lat: 12.9 + float64(i)*0.001, Lng: 77.59}))
	}
	input := &Input{
		Group: models.GroupContext{
			GroupCode:       "g1",
			Budget:          models.TierLow,
			MemberLocations: []models.Coordinates{{Lat: 12.9716, Lng: 77.5946}},
		},
		Suggestions: suggestions,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
