// internal/workers/bot/handle-query/models.go
package handlequery

import "planpal/internal/models"

type Input struct {
	Group   models.GroupContext `json:"group"`
	Message string              `json:"message"`
}

type Output struct {
	Command string `json:"command"`
	Reply   string `json:"reply"`
}

// Command names understood by the bot.
const (
	CommandSuggest  = "suggest"
	CommandCompare  = "compare"
	CommandSafety   = "safety"
	CommandProsCons = "proscons"
	CommandHelp     = "help"
)

// request carries everything a response generator needs to phrase a
// reply for one parsed command.
type request struct {
	Command string
	Group   models.GroupContext
	Ranked  []models.ScoreResult
	TopN    int
	// compare operands, resolved against the group's suggestions
	CompareA *models.ScoreResult
	CompareB *models.ScoreResult
}
