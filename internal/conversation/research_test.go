package conversation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/extract"
	"aura/pkg/auratypes"
)

func TestResearcher_ParsesAllFiveSections(t *testing.T) {
	client := &mockClient{configured: true, responses: []string{"```json\n" + researchJSON + "\n```"}}
	researcher := NewResearcher(client, "research-model")

	results, err := researcher.Research(context.Background(), auratypes.SessionMemory{Title: "Smart Irrigation Controller"})
	require.NoError(t, err)

	assert.Equal(t, "A thorough introduction to the problem domain.", results.Introduction)
	assert.Equal(t, "Recent work includes several relevant systems.", results.LiteratureReview)
	assert.Equal(t, "Iterative development with staged validation.", results.Methodology)

	// The nested sections are stored as canonical JSON text and must decode
	// back into their typed records.
	var sysReq auratypes.SystemRequirements
	require.NoError(t, json.Unmarshal([]byte(results.SystemRequirements), &sysReq))
	assert.Equal(t, []string{"collect sensor data"}, sysReq.Functional)
	assert.Equal(t, []string{"Go backend"}, sysReq.Software)

	var feas auratypes.FeasibilityAnalysis
	require.NoError(t, json.Unmarshal([]byte(results.FeasibilityAnalysis), &feas))
	assert.Equal(t, "sensor drift", feas.Risk)
}

func TestResearcher_SurfacesParseErrorUnchanged(t *testing.T) {
	client := &mockClient{configured: true, responses: []string{"no JSON at all"}}
	researcher := NewResearcher(client, "research-model")

	_, err := researcher.Research(context.Background(), auratypes.SessionMemory{})
	require.Error(t, err)

	var parseErr *extract.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestResearcher_NotConfigured(t *testing.T) {
	researcher := NewResearcher(&mockClient{configured: false}, "research-model")

	_, err := researcher.Research(context.Background(), auratypes.SessionMemory{})
	assert.Error(t, err)
}

func TestResearcher_IssuesSingleCall(t *testing.T) {
	client := &mockClient{configured: true, responses: []string{researchJSON}}
	researcher := NewResearcher(client, "research-model")

	_, err := researcher.Research(context.Background(), auratypes.SessionMemory{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls, "all five sections come from one consolidated call")
}

func TestCanonicalJSON(t *testing.T) {
	assert.Equal(t, "{}", canonicalJSON(nil))
	assert.Equal(t, "already text", canonicalJSON("already text"))

	out := canonicalJSON(map[string]any{"technical": "feasible"})
	assert.JSONEq(t, `{"technical": "feasible"}`, out)
}

func TestBuildResearchPrompt_DefaultsForEmptyFields(t *testing.T) {
	prompt := buildResearchPrompt(auratypes.SessionMemory{})
	assert.Contains(t, prompt, "**Project Title:** Unknown")
	assert.Contains(t, prompt, "**Objectives:** Not specified")
}
