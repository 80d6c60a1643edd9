// internal/workers/bot/handle-query/handler.go
package handlequery

import (
	"context"
	"fmt"
	"strings"

	stderrors "planpal/internal/common/errors"
	httpclient "planpal/internal/common/http"
	"planpal/internal/common/logger"
	"planpal/internal/models"
	"planpal/internal/store"
	ranksuggestions "planpal/internal/workers/suggestions/rank-suggestions"
)

const TaskType = "handle-query"

// Handler answers chat commands about a group's suggestions. The
// response generator is picked once at construction: LLM-backed when a
// GenAI key is configured, rule-based otherwise. The rule generator is
// always kept around as the fallback for LLM failures.
type Handler struct {
	config    *Config
	store     store.Store
	ranker    *ranksuggestions.Handler
	generator ResponseGenerator
	fallback  *RuleGenerator
	logger    logger.Logger
}

func NewHandler(config *Config, s store.Store, ranker *ranksuggestions.Handler, log logger.Logger) *Handler {
	fallback := NewRuleGenerator()

	var generator ResponseGenerator = fallback
	if config.GenAI.APIKey != "" {
		generator = NewLLMGenerator(config.GenAI, httpclient.NewClient(config.GenAITimeout()))
		log.Info("bot responses will be phrased by the GenAI backend", nil)
	}

	return &Handler{
		config:    config,
		store:     s,
		ranker:    ranker,
		generator: generator,
		fallback:  fallback,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Group.GroupCode == "" {
		return nil, stderrors.NewInvalidGroupInputError("groupCode is required")
	}

	command, args := parseCommand(input.Message)

	ranked, err := h.rankedSuggestions(ctx, input.Group)
	if err != nil {
		return nil, err
	}

	req := &request{
		Command: command,
		Group:   input.Group,
		Ranked:  ranked,
		TopN:    h.config.TopN,
	}

	if command == CommandCompare {
		reply, ok := h.resolveCompare(req, ranked, args)
		if !ok {
			return &Output{Command: command, Reply: reply}, nil
		}
	}

	// Nothing to phrase for an empty group; the rule generator has the
	// canned reply and the LLM has nothing to work with.
	if len(ranked) == 0 && (command == CommandSuggest || command == CommandProsCons) {
		reply, _ := h.fallback.Generate(ctx, req)
		return &Output{Command: command, Reply: reply}, nil
	}

	reply, err := h.generator.Generate(ctx, req)
	if err != nil {
		h.logger.Warn("generator failed, using rule-based reply", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
		})
		reply, _ = h.fallback.Generate(ctx, req)
	}

	return &Output{Command: command, Reply: reply}, nil
}

func (h *Handler) rankedSuggestions(ctx context.Context, group models.GroupContext) ([]models.ScoreResult, error) {
	suggestions, err := h.store.ListByGroup(ctx, group.GroupCode)
	if err != nil {
		return nil, err
	}

	out, err := h.ranker.Execute(ctx, &ranksuggestions.Input{
		Group:       group,
		Suggestions: suggestions,
	})
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

// resolveCompare fills the compare operands on req. When a title cannot
// be matched it returns the reply to send instead, naming what was not
// found.
func (h *Handler) resolveCompare(req *request, ranked []models.ScoreResult, args []string) (string, bool) {
	titleA, titleB := splitCompareArgs(args, ranked)
	if titleA == "" || titleB == "" {
		return "Tell me two options to compare, like: compare Cubbon Park vs Wonderla", false
	}

	a := findByTitle(ranked, titleA)
	if a == nil {
		return fmt.Sprintf("I couldn't find %q among this group's suggestions.", titleA), false
	}
	b := findByTitle(ranked, titleB)
	if b == nil {
		return fmt.Sprintf("I couldn't find %q among this group's suggestions.", titleB), false
	}

	req.CompareA = a
	req.CompareB = b
	return "", true
}

// parseCommand extracts the command word and its arguments. Parsing is
// case-insensitive and tolerant of extra whitespace; anything
// unrecognized maps to help.
func parseCommand(message string) (string, []string) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return CommandHelp, nil
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case CommandSuggest, CommandCompare, CommandSafety, CommandProsCons:
		return command, args
	}
	return CommandHelp, nil
}

// splitCompareArgs finds the two titles in "compare A vs B". An
// explicit "vs" or "and" separator wins; otherwise the split point is
// searched right to left for a prefix matching a known title, and as a
// last resort the first token is taken as A.
func splitCompareArgs(args []string, ranked []models.ScoreResult) (string, string) {
	if len(args) < 2 {
		return "", ""
	}

	for i, tok := range args {
		lower := strings.ToLower(tok)
		if lower == "vs" || lower == "vs." || lower == "and" {
			if i == 0 || i == len(args)-1 {
				return "", ""
			}
			return strings.Join(args[:i], " "), strings.Join(args[i+1:], " ")
		}
	}

	for i := len(args) - 1; i >= 1; i-- {
		a := strings.Join(args[:i], " ")
		if findByTitle(ranked, a) != nil {
			return a, strings.Join(args[i:], " ")
		}
	}

	return args[0], strings.Join(args[1:], " ")
}

func findByTitle(ranked []models.ScoreResult, title string) *models.ScoreResult {
	q := strings.ToLower(strings.TrimSpace(title))
	if q == "" {
		return nil
	}
	for i := range ranked {
		if strings.Contains(strings.ToLower(ranked[i].Suggestion.Title), q) {
			return &ranked[i]
		}
	}
	return nil
}
