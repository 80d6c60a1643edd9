// internal/workers/suggestions/rank-suggestions/handler.go
package ranksuggestions

import (
	"context"
	"math"
	"sort"

	stderrors "planpal/internal/common/errors"
	"planpal/internal/common/logger"
	"planpal/internal/models"
)

const TaskType = "rank-suggestions"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute scores every suggestion against the group context and returns
// them ordered best first. The output is always a permutation of the
// input: nothing is filtered, and equal scores keep their input order.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Group.GroupCode == "" {
		return nil, stderrors.NewInvalidGroupInputError("groupCode is required")
	}

	results := make([]models.ScoreResult, 0, len(input.Suggestions))
	if len(input.Suggestions) == 0 {
		return &Output{Results: results}, nil
	}

	maxVotes := 0
	for _, sg := range input.Suggestions {
		if v := input.Group.Votes[sg.ID]; v > maxVotes {
			maxVotes = v
		}
	}

	for _, sg := range input.Suggestions {
		breakdown := models.ScoreBreakdown{
			Rating:    clamp01(sg.Rating / 5),
			Budget:    h.budgetMatch(input.Group.Budget, sg.Tier),
			Votes:     h.voteScore(input.Group.Votes[sg.ID], maxVotes),
			Proximity: h.proximityScore(sg.Location, input.Group.MemberLocations),
		}

		score := weightRating*breakdown.Rating +
			weightBudget*breakdown.Budget +
			weightVotes*breakdown.Votes +
			weightProximity*breakdown.Proximity

		results = append(results, models.ScoreResult{
			Suggestion: sg,
			Score:      score,
			Breakdown:  breakdown,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	h.logger.Debug("suggestions ranked", map[string]interface{}{
		"groupCode": input.Group.GroupCode,
		"count":     len(results),
	})

	return &Output{Results: results}, nil
}

// budgetMatch compares the suggestion's price tier against the group
// budget: exact fit scores full, one tier over scores half, anything
// else scores 0.1. A suggestion with no price information is assumed
// to fit.
func (h *Handler) budgetMatch(groupBudget models.BudgetTier, tier models.BudgetTier) float64 {
	if tier == models.TierUnknown {
		return 1.0
	}
	if groupBudget == models.TierUnknown {
		groupBudget = models.TierMedium
	}

	diff := tier.Level() - groupBudget.Level()
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.1
	}
}

func (h *Handler) voteScore(votes, maxVotes int) float64 {
	if maxVotes < 1 {
		maxVotes = 1
	}
	return clamp01(float64(votes) / float64(maxVotes))
}

// proximityScore decays linearly with distance to the nearest group
// member, reaching zero at MaxDistanceKm. Without coordinates on
// either side the score is a neutral 0.5.
func (h *Handler) proximityScore(loc *models.Coordinates, members []models.Coordinates) float64 {
	if loc == nil || len(members) == 0 {
		return 0.5
	}

	nearest := math.Inf(1)
	for _, m := range members {
		if d := haversineKm(m, *loc); d < nearest {
			nearest = d
		}
	}
	return clamp01(1 - nearest/h.config.MaxDistanceKm)
}

const earthRadiusKm = 6371

func haversineKm(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	x := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(x))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
