// Package auratypes defines the shared data types for the AURA research assistant.
// This file contains the session memory record that the conversation loop fills
// incrementally, plus the research results produced by the auto-research step.
package auratypes

import "strings"

// SynopsisFields enumerates the flat memory fields extracted from conversation,
// in the order they appear in the rendered synopsis.
var SynopsisFields = []string{
	"title",
	"group_details",
	"objective_scope",
	"process_description",
	"resources_limitations",
	"conclusion",
	"references",
}

// SessionMemory is the evolving record for one conversation session.
// The conversation handler's merge step is the only writer of the synopsis
// fields; everything else reads.
type SessionMemory struct {
	Title                string `json:"title,omitempty"`
	GroupDetails         string `json:"group_details,omitempty"`
	ObjectiveScope       string `json:"objective_scope,omitempty"`
	ProcessDescription   string `json:"process_description,omitempty"`
	ResourcesLimitations string `json:"resources_limitations,omitempty"`
	Conclusion           string `json:"conclusion,omitempty"`
	References           string `json:"references,omitempty"`

	AutoResearchDone bool             `json:"auto_research_done,omitempty"`
	ResearchResults  *ResearchResults `json:"research_results,omitempty"`
}

// ResearchResults holds the five sections produced by the auto-research step.
// SystemRequirements and FeasibilityAnalysis are stored as canonical indented
// JSON text so they survive a round trip through the session store unchanged.
type ResearchResults struct {
	Introduction        string `json:"introduction"`
	LiteratureReview    string `json:"literature_review"`
	Methodology         string `json:"methodology"`
	SystemRequirements  string `json:"system_requirements"`
	FeasibilityAnalysis string `json:"feasibility_analysis"`
}

// SystemRequirements is the nested record the research model emits for the
// system requirements section.
type SystemRequirements struct {
	Functional    []string `json:"functional"`
	NonFunctional []string `json:"non_functional"`
	Hardware      []string `json:"hardware"`
	Software      []string `json:"software"`
}

// FeasibilityAnalysis is the nested record the research model emits for the
// feasibility analysis section.
type FeasibilityAnalysis struct {
	Technical   string `json:"technical"`
	Economic    string `json:"economic"`
	Operational string `json:"operational"`
	Schedule    string `json:"schedule"`
	Risk        string `json:"risk"`
}

// Field returns the value of the named synopsis field, or "" for unknown names.
func (m *SessionMemory) Field(name string) string {
	switch name {
	case "title":
		return m.Title
	case "group_details":
		return m.GroupDetails
	case "objective_scope":
		return m.ObjectiveScope
	case "process_description":
		return m.ProcessDescription
	case "resources_limitations":
		return m.ResourcesLimitations
	case "conclusion":
		return m.Conclusion
	case "references":
		return m.References
	default:
		return ""
	}
}

// SetField sets the named synopsis field. Unknown names are ignored so a
// model that invents keys cannot corrupt the record.
func (m *SessionMemory) SetField(name, value string) {
	switch name {
	case "title":
		m.Title = value
	case "group_details":
		m.GroupDetails = value
	case "objective_scope":
		m.ObjectiveScope = value
	case "process_description":
		m.ProcessDescription = value
	case "resources_limitations":
		m.ResourcesLimitations = value
	case "conclusion":
		m.Conclusion = value
	case "references":
		m.References = value
	}
}

// FilledFieldCount reports how many synopsis fields hold more than minLen
// characters after trimming whitespace. The auto-research trigger uses this
// with minLen 10.
func (m *SessionMemory) FilledFieldCount(minLen int) int {
	count := 0
	for _, name := range SynopsisFields {
		if len(strings.TrimSpace(m.Field(name))) > minLen {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the memory record.
func (m *SessionMemory) Clone() SessionMemory {
	out := *m
	if m.ResearchResults != nil {
		rr := *m.ResearchResults
		out.ResearchResults = &rr
	}
	return out
}
