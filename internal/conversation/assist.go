package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"aura/internal/llm"
	"aura/internal/logger"
	"aura/pkg/auratypes"
)

const assistTemperature = 0.7

// Suggestions asks the completion provider for five concrete improvement
// suggestions for the project held in memory.
func (h *Handler) Suggestions(ctx context.Context, mem auratypes.SessionMemory) string {
	memJSON, err := json.Marshal(mem)
	if err != nil {
		memJSON = []byte("{}")
	}
	prompt := fmt.Sprintf(suggestionsPromptTemplate, memJSON)
	return h.completeOrFallback(ctx, prompt)
}

// ProfessionalAnalysis produces a market and feasibility assessment of an
// idea against previously found repositories. At most three repository
// summaries are included to keep the prompt bounded.
func (h *Handler) ProfessionalAnalysis(ctx context.Context, idea string, repos []string) string {
	if len(repos) > 3 {
		repos = repos[:3]
	}
	reposJSON, err := json.Marshal(repos)
	if err != nil {
		reposJSON = []byte("[]")
	}
	prompt := fmt.Sprintf(analysisPromptTemplate, idea, reposJSON)
	return h.completeOrFallback(ctx, prompt)
}

// completeOrFallback runs a single-prompt completion and converts every
// failure into a fixed user-facing string.
func (h *Handler) completeOrFallback(ctx context.Context, prompt string) string {
	if !h.client.IsConfigured() {
		return llm.NotConfiguredReply
	}

	content, err := h.client.Complete(ctx, []auratypes.Message{{Role: "user", Content: prompt}}, h.chatModel, assistTemperature)
	if err != nil {
		logger.Error("Completion failed", "error", err)
		return transportErrReply
	}
	return content
}

// SearchPapers returns a placeholder list of paper summaries. The paper
// provider integration never left mock stage upstream; the deterministic
// output keeps the endpoint and its consumers exercisable.
func SearchPapers(query string, limit int) []string {
	if query == "" {
		return []string{}
	}
	if limit > 3 {
		limit = 3
	}

	papers := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		papers = append(papers, fmt.Sprintf(
			"**Research Paper %d**: Advanced %s using Machine Learning Techniques (2024)\n    Highly relevant to your project approach",
			i+1, query))
	}
	return papers
}
