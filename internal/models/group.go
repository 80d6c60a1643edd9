// internal/models/group.go
package models

// GroupContext is the read-only snapshot of group state supplied by the
// caller for each scoring request. It is never mutated by this module.
type GroupContext struct {
	GroupCode       string         `json:"groupCode"`
	Budget          BudgetTier     `json:"budget,omitempty"`
	Mood            string         `json:"mood,omitempty"`
	MemberLocations []Coordinates  `json:"memberLocations,omitempty"`
	Votes           map[string]int `json:"votes,omitempty"` // suggestion ID -> vote count
}

// DefaultCenter is used for provider searches when no member has shared
// a location (Bengaluru city center).
var DefaultCenter = Coordinates{Lat: 12.9716, Lng: 77.5946}

// Centroid averages the known member coordinates. ok is false when no
// member has shared a location.
func (g GroupContext) Centroid() (Coordinates, bool) {
	if len(g.MemberLocations) == 0 {
		return Coordinates{}, false
	}
	var lat, lng float64
	for _, c := range g.MemberLocations {
		lat += c.Lat
		lng += c.Lng
	}
	n := float64(len(g.MemberLocations))
	return Coordinates{Lat: lat / n, Lng: lng / n}, true
}

// ScoreBreakdown carries the per-component sub-scores, each in [0,1],
// so a recommendation can be explained to the group.
type ScoreBreakdown struct {
	Rating    float64 `json:"rating"`
	Budget    float64 `json:"budget"`
	Votes     float64 `json:"votes"`
	Proximity float64 `json:"proximity"`
}

// ScoreResult pairs a suggestion with its computed score. Results are
// recomputed on every query and never persisted.
type ScoreResult struct {
	Suggestion Suggestion     `json:"suggestion"`
	Score      float64        `json:"score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}
