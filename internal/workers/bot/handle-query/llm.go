// internal/workers/bot/handle-query/llm.go
package handlequery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	appconfig "planpal/internal/common/config"
	stderrors "planpal/internal/common/errors"
	httpclient "planpal/internal/common/http"
)

// LLMGenerator phrases replies through a GenAI text endpoint. The
// structured facts (rankings, breakdowns) are computed locally and put
// in the prompt; the model only does the wording.
type LLMGenerator struct {
	cfg    appconfig.GenAIConfig
	client *httpclient.Client
}

func NewLLMGenerator(cfg appconfig.GenAIConfig, client *httpclient.Client) *LLMGenerator {
	return &LLMGenerator{cfg: cfg, client: client}
}

func (g *LLMGenerator) Generate(ctx context.Context, req *request) (string, error) {
	requestBody := map[string]interface{}{
		"prompt":      g.buildPrompt(req),
		"max_tokens":  g.cfg.MaxTokens,
		"temperature": g.cfg.Temperature,
	}

	body, _ := json.Marshal(requestBody)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.cfg.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", stderrors.NewLLMGenerateFailedError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", stderrors.NewLLMTimeoutError()
		}
		return "", stderrors.NewLLMGenerateFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", stderrors.NewLLMGenerateFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", stderrors.NewLLMGenerateFailedError(err)
	}

	text := strings.TrimSpace(apiResponse.Text)
	if text == "" {
		return "", stderrors.NewLLMGenerateFailedError(fmt.Errorf("empty completion"))
	}

	return text, nil
}

func (g *LLMGenerator) buildPrompt(req *request) string {
	var b strings.Builder
	b.WriteString("You are a friendly outing-planning assistant for a group of friends.\n")
	fmt.Fprintf(&b, "Command: %s\n", req.Command)
	if req.Group.Mood != "" {
		fmt.Fprintf(&b, "Group mood: %s\n", req.Group.Mood)
	}
	if req.Group.Budget != "" {
		fmt.Fprintf(&b, "Group budget: %s\n", req.Group.Budget)
	}

	switch req.Command {
	case CommandSuggest:
		b.WriteString("Recommend the top options, best first:\n")
		n := req.TopN
		if n > len(req.Ranked) {
			n = len(req.Ranked)
		}
		for i := 0; i < n; i++ {
			r := req.Ranked[i]
			fmt.Fprintf(&b, "%d. %s (score %.2f, rating %.1f)\n", i+1, r.Suggestion.Title, r.Score, r.Suggestion.Rating)
		}
	case CommandCompare:
		fmt.Fprintf(&b, "Compare these two options and pick a winner:\n")
		fmt.Fprintf(&b, "- %s: score %.2f\n", req.CompareA.Suggestion.Title, req.CompareA.Score)
		fmt.Fprintf(&b, "- %s: score %.2f\n", req.CompareB.Suggestion.Title, req.CompareB.Score)
	case CommandProsCons:
		if len(req.Ranked) == 0 {
			b.WriteString("The group has no suggestions yet; say so politely.\n")
			break
		}
		top := req.Ranked[0]
		pros, cons := breakdownLabels(top)
		fmt.Fprintf(&b, "Give pros and cons for %s.\n", top.Suggestion.Title)
		fmt.Fprintf(&b, "Pros: %s\nCons: %s\n", strings.Join(pros, ", "), strings.Join(cons, ", "))
	case CommandSafety:
		b.WriteString("Share practical safety tips for a group outing.\n")
	}

	b.WriteString("Reply in two or three short sentences. Do not invent options not listed above.")
	return b.String()
}
