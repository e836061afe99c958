// Package conversation implements the core orchestration loop of the AURA
// backend: one completion call per user turn merges new information into the
// session memory and produces the reply, and once enough fields are filled a
// one-shot research call populates the synopsis sections.
package conversation

import (
	"context"
	"fmt"

	"aura/internal/extract"
	"aura/internal/llm"
	"aura/internal/logger"
	"aura/internal/memory"
	"aura/pkg/auratypes"
)

// Fixed user-facing replies for degraded paths. Internal failures never reach
// the user as raw errors.
const (
	apologyReply      = "An error occurred during AI processing. Please try again."
	genericReply      = "I'm not sure what to say, can you rephrase?"
	researchIssueNote = "\n\n(Auto-research encountered an issue, but you can continue.)"
	transportErrReply = "I encountered an error. Please try again."
)

// Auto-research fires once a session has researchThreshold fields longer than
// filledFieldMinLen characters.
const (
	filledFieldMinLen = 10
	researchThreshold = 3
)

const turnTemperature = 0.2

// Handler runs the conversation loop. It owns the only code path that mutates
// synopsis memory fields.
type Handler struct {
	client        llm.Client
	store         memory.Store
	chatModel     string
	researchModel string
	researcher    *Researcher
}

// NewHandler creates a conversation handler backed by the given completion
// client and session store.
func NewHandler(client llm.Client, store memory.Store, chatModel, researchModel string) *Handler {
	return &Handler{
		client:        client,
		store:         store,
		chatModel:     chatModel,
		researchModel: researchModel,
		researcher:    NewResearcher(client, researchModel),
	}
}

// turnExtraction is the JSON object the consolidated turn prompt asks for.
type turnExtraction struct {
	UpdatedMemory map[string]any `json:"updated_memory"`
	UpdatedFields []string       `json:"updated_fields"`
	MissingInfo   []string       `json:"missing_info"`
	AIResponse    string         `json:"ai_response"`
}

// HandleTurn processes one user message: merge, reply, persist, and possibly
// trigger auto-research. It never returns an error for provider or parsing
// failures; those degrade to fixed replies with the memory left untouched.
// The returned error is reserved for programmer mistakes (nil handler deps).
func (h *Handler) HandleTurn(ctx context.Context, userText string, history []auratypes.Message, sessionID string, current auratypes.SessionMemory) (*auratypes.TurnResult, error) {
	if h.client == nil || h.store == nil {
		return nil, fmt.Errorf("conversation handler not fully constructed")
	}

	if !h.client.IsConfigured() {
		logger.Warn("Completion provider not configured, returning fallback reply", "session", sessionID)
		return unchangedResult(llm.NotConfiguredReply, current), nil
	}

	prompt := buildTurnPrompt(userText, history, current)
	raw, err := h.client.Complete(ctx, []auratypes.Message{{Role: "user", Content: prompt}}, h.chatModel, turnTemperature)
	if err != nil {
		logger.Error("Turn completion failed", "session", sessionID, "error", err)
		return unchangedResult(apologyReply, current), nil
	}

	var parsed turnExtraction
	if err := extract.ExtractInto(raw, &parsed); err != nil {
		logger.Error("Turn extraction failed", "session", sessionID, "error", err)
		return unchangedResult(apologyReply, current), nil
	}

	updated := mergeMemory(current, parsed.UpdatedMemory)

	reply := parsed.AIResponse
	if reply == "" {
		reply = genericReply
	}
	missingInfo := parsed.MissingInfo
	if missingInfo == nil {
		missingInfo = []string{}
	}
	updatedFields := parsed.UpdatedFields
	if updatedFields == nil {
		updatedFields = []string{}
	}

	if len(updatedFields) > 0 {
		if err := h.store.Save(ctx, sessionID, updated); err != nil {
			logger.Error("Session save failed", "session", sessionID, "error", err)
		}
		logger.Info("Synopsis fields updated", "session", sessionID, "fields", updatedFields)
	}

	result := &auratypes.TurnResult{
		Response:      reply,
		UpdatedMemory: updated,
		UpdatedFields: updatedFields,
		MissingInfo:   missingInfo,
	}

	h.maybeTriggerResearch(ctx, sessionID, result)
	return result, nil
}

// maybeTriggerResearch runs the one-shot research call when the session has
// crossed the filled-field threshold. On failure the done flag stays unset so
// a later turn retries.
func (h *Handler) maybeTriggerResearch(ctx context.Context, sessionID string, result *auratypes.TurnResult) {
	mem := &result.UpdatedMemory
	if mem.AutoResearchDone || mem.FilledFieldCount(filledFieldMinLen) < researchThreshold {
		return
	}

	logger.Info("Triggering auto-research", "session", sessionID)
	research, err := h.researcher.Research(ctx, *mem)
	if err != nil {
		logger.Error("Auto-research failed", "session", sessionID, "error", err)
		result.Response += researchIssueNote
		return
	}

	mem.ResearchResults = research
	mem.AutoResearchDone = true
	if err := h.store.Save(ctx, sessionID, *mem); err != nil {
		logger.Error("Session save failed after research", "session", sessionID, "error", err)
	}

	result.AutoResearchTriggered = true
	result.ResearchResults = research
	logger.Info("Auto-research completed", "session", sessionID)
}

// mergeMemory folds the model's updated_memory object into a copy of the
// current record. Only known synopsis fields with non-empty string values are
// adopted, so control flags and research results survive a sloppy model.
func mergeMemory(current auratypes.SessionMemory, updates map[string]any) auratypes.SessionMemory {
	merged := current.Clone()
	for _, field := range auratypes.SynopsisFields {
		if value, ok := updates[field].(string); ok && value != "" {
			merged.SetField(field, value)
		}
	}
	return merged
}

func unchangedResult(reply string, current auratypes.SessionMemory) *auratypes.TurnResult {
	return &auratypes.TurnResult{
		Response:      reply,
		UpdatedMemory: current,
		UpdatedFields: []string{},
		MissingInfo:   []string{},
	}
}
