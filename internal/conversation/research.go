package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"aura/internal/extract"
	"aura/internal/llm"
	"aura/internal/logger"
	"aura/pkg/auratypes"
)

const researchTemperature = 0.2

// Researcher produces the five synopsis research sections with a single
// consolidated completion call. It is stateless; the caller enforces the
// run-at-most-once-per-session guarantee.
type Researcher struct {
	client llm.Client
	model  string
}

// NewResearcher creates a researcher using the given client and model.
func NewResearcher(client llm.Client, model string) *Researcher {
	return &Researcher{client: client, model: model}
}

// Research generates all five sections from the current memory snapshot.
// Parse failures are returned unchanged so the caller decides whether to
// retry on a later turn.
func (r *Researcher) Research(ctx context.Context, mem auratypes.SessionMemory) (*auratypes.ResearchResults, error) {
	if !r.client.IsConfigured() {
		return nil, fmt.Errorf("completion provider not configured")
	}

	prompt := buildResearchPrompt(mem)
	raw, err := r.client.Complete(ctx, []auratypes.Message{{Role: "user", Content: prompt}}, r.model, researchTemperature)
	if err != nil {
		return nil, fmt.Errorf("research completion failed: %w", err)
	}

	parsed, err := extract.Extract(raw)
	if err != nil {
		return nil, err
	}

	results := &auratypes.ResearchResults{
		Introduction:        stringValue(parsed["introduction"]),
		LiteratureReview:    stringValue(parsed["literature_review"]),
		Methodology:         stringValue(parsed["methodology"]),
		SystemRequirements:  canonicalJSON(parsed["system_requirements"]),
		FeasibilityAnalysis: canonicalJSON(parsed["feasibility_analysis"]),
	}

	logger.Debug("Research sections generated",
		"introduction_length", len(results.Introduction),
		"literature_length", len(results.LiteratureReview))
	return results, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// canonicalJSON serializes the nested research records to indented JSON for
// storage next to the plain-text sections. A model that emits a string where
// an object was asked for is passed through as-is.
func canonicalJSON(v any) string {
	if v == nil {
		return "{}"
	}
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
