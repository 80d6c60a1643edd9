// internal/workers/suggestions/rank-suggestions/models.go
package ranksuggestions

import "planpal/internal/models"

type Input struct {
	Group       models.GroupContext `json:"group"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

type Output struct {
	Results []models.ScoreResult `json:"results"`
}
