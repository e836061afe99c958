package conversation

import (
	"encoding/json"
	"fmt"

	"aura/pkg/auratypes"
)

// turnPromptTemplate is the consolidated extraction-and-reply prompt. One
// completion call merges new information into the synopsis memory, reports
// which fields changed and which are still missing, and produces the
// conversational reply, all as a single JSON object.
const turnPromptTemplate = `You are AURA, an intelligent research assistant.
Your goal is to talk to a user to help them build an academic project synopsis.

**Current Synopsis Memory:**
%s

**Conversation History (last %d messages):**
%s

**User's Latest Message:**
%s

**Required JSON Output Format (No comments allowed):**
{
    "updated_memory": {
        "title": "Update with new info, or keep old",
        "group_details": "Update with new info, or keep old",
        "objective_scope": "Update with new info, or keep old",
        "process_description": "Update with new info, or keep old",
        "resources_limitations": "Update with new info, or keep old",
        "conclusion": "Update with new info, or keep old",
        "references": "Update with new info, or keep old"
    },
    "updated_fields": ["list", "of", "keys", "you", "updated"],
    "missing_info": ["list", "of", "key", "info", "still_needed"],
    "ai_response": "Your natural, conversational response to the user. Acknowledge what they said and ask ONE good follow-up question."
}

**Rules:**
- Fill updated_memory by merging new info with the "Current Synopsis Memory".
- updated_fields should only list keys you actually changed or added.
- ai_response must be conversational, not robotic. Do not mention "synopsis".
- Do not add any comments (like //) inside the JSON response.`

// researchPromptTemplate asks for all five research sections in one call; a
// per-section design would cost five round trips for the same content.
const researchPromptTemplate = `You are an expert academic researcher.
A student is working on the following project:

**Project Title:** %s
**Objectives:** %s
**Technology Focus:** %s

**Task:**
Generate the content for the following 5 sections. Be comprehensive,
academic, and detailed.

**Output STRICTLY in valid JSON (no markdown, no comments):**
{
    "introduction": "...",
    "literature_review": "...",
    "methodology": "...",
    "system_requirements": {
        "functional": ["..."],
        "non_functional": ["..."],
        "hardware": ["..."],
        "software": ["..."]
    },
    "feasibility_analysis": {
        "technical": "...",
        "economic": "...",
        "operational": "...",
        "schedule": "...",
        "risk": "..."
    }
}`

const suggestionsPromptTemplate = `Based on this project: %s

Provide 5 specific, actionable suggestions to improve the project:
1. Technical enhancements
2. Implementation strategies
3. Potential challenges to address
4. Innovation opportunities
5. Market differentiation

Be specific and practical.`

const analysisPromptTemplate = `Conduct a professional analysis of this project idea: %s

Available similar repositories: %s

Provide analysis covering:
1. Market Potential and Innovation Level
2. Technical Complexity Assessment
3. Implementation Feasibility
4. Competitive Landscape
5. Recommended Technology Stack
6. Development Timeline Estimation

Give specific, actionable insights.`

// historyWindow is the number of trailing conversation messages included in
// the turn prompt.
const historyWindow = 3

func buildTurnPrompt(userText string, history []auratypes.Message, mem auratypes.SessionMemory) string {
	memJSON, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		memJSON = []byte("{}")
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	historyJSON, err := json.MarshalIndent(window, "", "  ")
	if err != nil {
		historyJSON = []byte("[]")
	}

	return fmt.Sprintf(turnPromptTemplate, memJSON, historyWindow, historyJSON, userText)
}

func buildResearchPrompt(mem auratypes.SessionMemory) string {
	return fmt.Sprintf(researchPromptTemplate,
		orDefault(mem.Title, "Unknown"),
		orDefault(mem.ObjectiveScope, "Not specified"),
		orDefault(mem.ProcessDescription, "Not specified"))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
