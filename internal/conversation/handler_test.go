package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/llm"
	"aura/internal/memory"
	"aura/pkg/auratypes"
)

// mockClient replays canned completions in order and records each request.
type mockClient struct {
	configured bool
	responses  []string
	err        error
	calls      int
	prompts    []string
}

func (m *mockClient) ProviderName() string { return "mock" }
func (m *mockClient) IsConfigured() bool   { return m.configured }

func (m *mockClient) Complete(_ context.Context, messages []auratypes.Message, _ string, _ float64) (string, error) {
	m.calls++
	if len(messages) > 0 {
		m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", errors.New("mock: no responses left")
	}
	response := m.responses[0]
	m.responses = m.responses[1:]
	return response, nil
}

// countingStore wraps a Store and counts writes.
type countingStore struct {
	memory.Store
	saves int
}

func (s *countingStore) Save(ctx context.Context, sessionID string, mem auratypes.SessionMemory) error {
	s.saves++
	return s.Store.Save(ctx, sessionID, mem)
}

func turnResponse(updates map[string]string, updatedFields []string, reply string) string {
	memPart := ""
	for k, v := range updates {
		memPart += fmt.Sprintf("%q: %q, ", k, v)
	}
	fieldsPart := ""
	for i, f := range updatedFields {
		if i > 0 {
			fieldsPart += ", "
		}
		fieldsPart += fmt.Sprintf("%q", f)
	}
	return fmt.Sprintf(`{"updated_memory": {%s"references": ""}, "updated_fields": [%s], "missing_info": ["timeline"], "ai_response": %q}`,
		memPart, fieldsPart, reply)
}

func TestHandleTurn_MergesAndPersists(t *testing.T) {
	client := &mockClient{
		configured: true,
		responses: []string{turnResponse(
			map[string]string{"title": "Smart Irrigation Controller"},
			[]string{"title"},
			"Sounds great! What hardware will you use?")},
	}
	store := &countingStore{Store: memory.NewLocalStore()}
	handler := NewHandler(client, store, "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "I want to build a smart irrigation controller", nil, "s1", auratypes.SessionMemory{})
	require.NoError(t, err)

	assert.Equal(t, "Sounds great! What hardware will you use?", result.Response)
	assert.Equal(t, []string{"title"}, result.UpdatedFields)
	assert.Equal(t, []string{"timeline"}, result.MissingInfo)
	assert.Equal(t, "Smart Irrigation Controller", result.UpdatedMemory.Title)
	assert.False(t, result.AutoResearchTriggered)
	assert.Equal(t, 1, store.saves)

	stored, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Smart Irrigation Controller", stored.Title)
}

func TestHandleTurn_IdempotentWhenNothingNew(t *testing.T) {
	current := auratypes.SessionMemory{Title: "Smart Irrigation Controller"}
	client := &mockClient{
		configured: true,
		responses: []string{turnResponse(
			map[string]string{"title": "Smart Irrigation Controller"},
			nil,
			"Anything else to add?")},
	}
	store := &countingStore{Store: memory.NewLocalStore()}
	handler := NewHandler(client, store, "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "as I said, a smart irrigation controller", nil, "s1", current)
	require.NoError(t, err)

	assert.Empty(t, result.UpdatedFields)
	assert.Equal(t, current.Title, result.UpdatedMemory.Title)
	assert.Zero(t, store.saves, "no field change must mean no persistence write")
}

func TestHandleTurn_ExtractionFailureReturnsApology(t *testing.T) {
	current := auratypes.SessionMemory{Title: "Existing Title"}
	client := &mockClient{configured: true, responses: []string{"total garbage, no JSON here"}}
	store := &countingStore{Store: memory.NewLocalStore()}
	handler := NewHandler(client, store, "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "hello", nil, "s1", current)
	require.NoError(t, err, "extraction failure must not surface as an error")

	assert.Equal(t, apologyReply, result.Response)
	assert.Equal(t, current, result.UpdatedMemory)
	assert.Empty(t, result.UpdatedFields)
	assert.Zero(t, store.saves)
}

func TestHandleTurn_TransportFailureReturnsApology(t *testing.T) {
	client := &mockClient{configured: true, err: errors.New("connection reset")}
	handler := NewHandler(client, memory.NewLocalStore(), "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "hello", nil, "s1", auratypes.SessionMemory{})
	require.NoError(t, err)
	assert.Equal(t, apologyReply, result.Response)
}

func TestHandleTurn_UnconfiguredProviderReturnsFixedReply(t *testing.T) {
	client := &mockClient{configured: false}
	handler := NewHandler(client, memory.NewLocalStore(), "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "hello", nil, "s1", auratypes.SessionMemory{})
	require.NoError(t, err)
	assert.Equal(t, llm.NotConfiguredReply, result.Response)
	assert.Zero(t, client.calls)
}

const researchJSON = `{
	"introduction": "A thorough introduction to the problem domain.",
	"literature_review": "Recent work includes several relevant systems.",
	"methodology": "Iterative development with staged validation.",
	"system_requirements": {"functional": ["collect sensor data"], "non_functional": ["low latency"], "hardware": ["soil sensors"], "software": ["Go backend"]},
	"feasibility_analysis": {"technical": "feasible", "economic": "low cost", "operational": "viable", "schedule": "two semesters", "risk": "sensor drift"}
}`

func TestHandleTurn_ThresholdTriggersResearchExactlyOnce(t *testing.T) {
	// Two fields already long enough; this turn fills the third.
	current := auratypes.SessionMemory{
		Title:          "Smart Irrigation Controller",
		ObjectiveScope: "Cut water usage on smallholder farms by half",
	}
	client := &mockClient{
		configured: true,
		responses: []string{
			turnResponse(
				map[string]string{"process_description": "LoRa sensor mesh feeding a Go scheduling service"},
				[]string{"process_description"},
				"Nice, the architecture is taking shape."),
			researchJSON,
		},
	}
	store := &countingStore{Store: memory.NewLocalStore()}
	handler := NewHandler(client, store, "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "it uses a LoRa sensor mesh", nil, "s1", current)
	require.NoError(t, err)

	assert.True(t, result.AutoResearchTriggered)
	require.NotNil(t, result.ResearchResults)
	assert.Equal(t, "A thorough introduction to the problem domain.", result.ResearchResults.Introduction)
	assert.True(t, result.UpdatedMemory.AutoResearchDone)
	assert.Equal(t, 2, client.calls, "one turn call plus one research call")
	assert.Equal(t, 2, store.saves, "field update write plus research write")

	// A later turn with the done flag set never re-triggers, regardless of
	// how many fields are filled.
	client.responses = []string{turnResponse(
		map[string]string{"conclusion": "Expected to cut water usage in half across pilot farms"},
		[]string{"conclusion"},
		"Great conclusion.")}
	second, err := handler.HandleTurn(context.Background(), "the outcome is halved water usage", nil, "s1", result.UpdatedMemory)
	require.NoError(t, err)

	assert.False(t, second.AutoResearchTriggered)
	assert.True(t, second.UpdatedMemory.AutoResearchDone)
	assert.Equal(t, 3, client.calls, "second turn must not issue a research call")
}

func TestHandleTurn_BelowThresholdDoesNotTrigger(t *testing.T) {
	client := &mockClient{
		configured: true,
		responses: []string{turnResponse(
			map[string]string{"title": "Smart Irrigation Controller"},
			[]string{"title"},
			"Tell me more!")},
	}
	handler := NewHandler(client, memory.NewLocalStore(), "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "an irrigation thing", nil, "s1", auratypes.SessionMemory{})
	require.NoError(t, err)

	assert.False(t, result.AutoResearchTriggered)
	assert.False(t, result.UpdatedMemory.AutoResearchDone)
	assert.Equal(t, 1, client.calls)
}

func TestHandleTurn_ResearchFailureKeepsReplyAndRetriesLater(t *testing.T) {
	current := auratypes.SessionMemory{
		Title:          "Smart Irrigation Controller",
		ObjectiveScope: "Cut water usage on smallholder farms by half",
	}
	client := &mockClient{
		configured: true,
		responses: []string{
			turnResponse(
				map[string]string{"process_description": "LoRa sensor mesh feeding a Go scheduling service"},
				[]string{"process_description"},
				"Nice, the architecture is taking shape."),
			"the research model returned prose instead of JSON",
		},
	}
	store := &countingStore{Store: memory.NewLocalStore()}
	handler := NewHandler(client, store, "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "it uses a LoRa sensor mesh", nil, "s1", current)
	require.NoError(t, err)

	assert.Contains(t, result.Response, "Nice, the architecture is taking shape.")
	assert.Contains(t, result.Response, "Auto-research encountered an issue")
	assert.False(t, result.AutoResearchTriggered)
	assert.False(t, result.UpdatedMemory.AutoResearchDone, "failed research must leave the flag unset so a later turn retries")
	assert.Equal(t, 1, store.saves, "only the field-update write happens on research failure")
}

func TestHandleTurn_ModelCannotCorruptControlFlags(t *testing.T) {
	current := auratypes.SessionMemory{
		Title:            "Existing",
		AutoResearchDone: true,
		ResearchResults:  &auratypes.ResearchResults{Introduction: "kept"},
	}
	// Model echoes a memory object with unknown and empty keys.
	client := &mockClient{
		configured: true,
		responses: []string{`{"updated_memory": {"title": "Existing", "auto_research_done": false, "bogus": "x"},
			"updated_fields": [], "missing_info": [], "ai_response": "ok"}`},
	}
	handler := NewHandler(client, memory.NewLocalStore(), "chat-model", "research-model")

	result, err := handler.HandleTurn(context.Background(), "hi", nil, "s1", current)
	require.NoError(t, err)

	assert.True(t, result.UpdatedMemory.AutoResearchDone)
	require.NotNil(t, result.UpdatedMemory.ResearchResults)
	assert.Equal(t, "kept", result.UpdatedMemory.ResearchResults.Introduction)
}

func TestHandleTurn_HistoryWindowLimitedToLastThree(t *testing.T) {
	client := &mockClient{
		configured: true,
		responses:  []string{turnResponse(nil, nil, "ok")},
	}
	handler := NewHandler(client, memory.NewLocalStore(), "chat-model", "research-model")

	history := []auratypes.Message{
		{Role: "user", Content: "first message, should be dropped"},
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
		{Role: "assistant", Content: "fourth"},
	}
	_, err := handler.HandleTurn(context.Background(), "now", history, "s1", auratypes.SessionMemory{})
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.NotContains(t, client.prompts[0], "first message, should be dropped")
	assert.Contains(t, client.prompts[0], "fourth")
}
