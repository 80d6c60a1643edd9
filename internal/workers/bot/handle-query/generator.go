// internal/workers/bot/handle-query/generator.go
package handlequery

import (
	"context"
	"fmt"
	"strings"

	"planpal/internal/models"
)

const helpMessage = "I can help with: suggest, compare, safety, proscons"

const safetyMessage = "Safety tips: share your live location with the group, " +
	"keep emergency contacts handy, prefer well-lit public places, " +
	"and agree on a meetup point before heading out."

// ResponseGenerator turns a parsed command into reply text. The
// implementation is chosen once at startup: rule-based by default, LLM
// backed when a GenAI key is configured.
type ResponseGenerator interface {
	Generate(ctx context.Context, req *request) (string, error)
}

// RuleGenerator produces fixed-template replies. It never fails, which
// also makes it the fallback when the LLM path errors out.
type RuleGenerator struct{}

func NewRuleGenerator() *RuleGenerator {
	return &RuleGenerator{}
}

func (g *RuleGenerator) Generate(ctx context.Context, req *request) (string, error) {
	switch req.Command {
	case CommandSuggest:
		return g.suggest(req), nil
	case CommandCompare:
		return g.compare(req), nil
	case CommandSafety:
		return safetyMessage, nil
	case CommandProsCons:
		return g.prosCons(req), nil
	default:
		return helpMessage, nil
	}
}

func (g *RuleGenerator) suggest(req *request) string {
	if len(req.Ranked) == 0 {
		return "No suggestions for this group yet. Fetch some first!"
	}

	n := req.TopN
	if n > len(req.Ranked) {
		n = len(req.Ranked)
	}

	var b strings.Builder
	b.WriteString("🎯 Top picks for you:")
	for i := 0; i < n; i++ {
		r := req.Ranked[i]
		b.WriteString(fmt.Sprintf("\n%d. %s (Rating: %.1f/5, score %.2f)", i+1, r.Suggestion.Title, r.Suggestion.Rating, r.Score))
	}
	return b.String()
}

func (g *RuleGenerator) compare(req *request) string {
	a, b := req.CompareA, req.CompareB

	winner, loser := a, b
	if b.Score > a.Score {
		winner, loser = b, a
	}

	if winner.Score == loser.Score {
		return fmt.Sprintf("It's a tie: %s and %s both score %.2f.",
			a.Suggestion.Title, b.Suggestion.Title, a.Score)
	}

	return fmt.Sprintf("%s wins with score %.2f over %s at %.2f.",
		winner.Suggestion.Title, winner.Score, loser.Suggestion.Title, loser.Score)
}

func (g *RuleGenerator) prosCons(req *request) string {
	if len(req.Ranked) == 0 {
		return "No suggestions for this group yet. Fetch some first!"
	}

	top := req.Ranked[0]
	pros, cons := breakdownLabels(top)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s:", top.Suggestion.Title))
	if len(pros) > 0 {
		b.WriteString("\nPros: " + strings.Join(pros, ", "))
	}
	if len(cons) > 0 {
		b.WriteString("\nCons: " + strings.Join(cons, ", "))
	}
	if len(pros) == 0 && len(cons) == 0 {
		b.WriteString("\nA solid middle-of-the-road option.")
	}
	return b.String()
}

// breakdownLabels maps strong sub-scores to pros and weak ones to cons.
// Middling components are left unsaid.
func breakdownLabels(r models.ScoreResult) (pros, cons []string) {
	type component struct {
		value float64
		pro   string
		con   string
	}
	components := []component{
		{r.Breakdown.Rating, "highly rated", "low rating"},
		{r.Breakdown.Budget, "fits the group budget", "over the group budget"},
		{r.Breakdown.Votes, "popular with the group", "few votes so far"},
		{r.Breakdown.Proximity, "close to everyone", "far from the group"},
	}

	for _, c := range components {
		switch {
		case c.value >= 0.6:
			pros = append(pros, c.pro)
		case c.value < 0.3:
			cons = append(cons, c.con)
		}
	}
	return pros, cons
}
