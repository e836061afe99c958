// This file contains the conversation-facing types: the role-tagged message
// exchanged with completion providers and the result of one conversation turn.
package auratypes

// Message is a single role-tagged message in a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnResult is the outcome of one conversation turn: the assistant reply,
// the merged memory, and the auto-research trigger decision.
type TurnResult struct {
	Response              string           `json:"response"`
	UpdatedMemory         SessionMemory    `json:"updated_memory"`
	UpdatedFields         []string         `json:"updated_fields"`
	MissingInfo           []string         `json:"missing_info"`
	AutoResearchTriggered bool             `json:"auto_research_triggered"`
	ResearchResults       *ResearchResults `json:"research_results,omitempty"`
}
