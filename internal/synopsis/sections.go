package synopsis

import (
	"encoding/json"
	"strings"

	"aura/pkg/auratypes"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockSubheading
	blockBullet
)

type block struct {
	kind blockKind
	text string
}

// section is one numbered synopsis section: a heading plus its content
// blocks. Sections are built independently of the PDF machinery so the
// fallback logic can be tested without parsing binary output.
type section struct {
	Heading string
	Blocks  []block
}

// Placeholder texts used when neither the research results nor the memory
// hold content for a section.
const (
	placeholderIntroduction = "Project introduction will be detailed here."
	placeholderLitReview    = "Comprehensive literature review of related work in the domain."
	placeholderProblem      = "The problem statement will outline the key challenges addressed by this project."
	placeholderObjectives   = "Project objectives and scope will be defined here."
	placeholderMethodology  = "Detailed methodology and technical approach."
	placeholderSystemReqs   = "System requirements will be specified here."
	placeholderFeasibility  = "Feasibility analysis will be documented here."
	placeholderImplPlan     = "Detailed implementation plan with timeline and milestones."
	placeholderOutcomes     = "Expected outcomes and impact of the project."
	placeholderReferences   = "References will be added based on research conducted."
)

// buildSections assembles all ten sections. Each section resolves its
// content through a fixed fallback chain: research results first where the
// research step produces that section, then the raw memory field, then the
// placeholder. No section is ever omitted.
func buildSections(mem auratypes.SessionMemory, research *auratypes.ResearchResults) []section {
	r := auratypes.ResearchResults{}
	if research != nil {
		r = *research
	}

	return []section{
		{
			Heading: "1. INTRODUCTION",
			Blocks:  paragraph(firstNonEmpty(r.Introduction, mem.ObjectiveScope, placeholderIntroduction)),
		},
		{
			Heading: "2. LITERATURE REVIEW",
			Blocks:  paragraph(firstNonEmpty(r.LiteratureReview, placeholderLitReview)),
		},
		{
			Heading: "3. PROBLEM STATEMENT",
			Blocks:  paragraph(firstNonEmpty(mem.ObjectiveScope, placeholderProblem)),
		},
		{
			Heading: "4. OBJECTIVES AND SCOPE",
			Blocks:  paragraph(firstNonEmpty(mem.ObjectiveScope, placeholderObjectives)),
		},
		{
			Heading: "5. METHODOLOGY",
			Blocks:  paragraph(firstNonEmpty(r.Methodology, mem.ProcessDescription, placeholderMethodology)),
		},
		{
			Heading: "6. SYSTEM REQUIREMENTS",
			Blocks:  systemRequirementBlocks(r.SystemRequirements),
		},
		{
			Heading: "7. FEASIBILITY ANALYSIS",
			Blocks:  feasibilityBlocks(r.FeasibilityAnalysis),
		},
		{
			Heading: "8. IMPLEMENTATION PLAN",
			Blocks:  paragraph(firstNonEmpty(mem.ProcessDescription, placeholderImplPlan)),
		},
		{
			Heading: "9. EXPECTED OUTCOMES",
			Blocks:  paragraph(firstNonEmpty(mem.Conclusion, placeholderOutcomes)),
		},
		{
			Heading: "10. REFERENCES",
			Blocks:  paragraph(firstNonEmpty(mem.References, r.LiteratureReview, placeholderReferences)),
		},
	}
}

// systemRequirementBlocks renders the stored system-requirements JSON as
// headed bullet lists. Unparseable but non-empty text is emitted verbatim so
// model output that survived storage is never dropped.
func systemRequirementBlocks(raw string) []block {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return paragraph(placeholderSystemReqs)
	}

	var reqs auratypes.SystemRequirements
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		return paragraph(raw)
	}

	categories := []struct {
		title string
		items []string
	}{
		{"Functional", reqs.Functional},
		{"Non Functional", reqs.NonFunctional},
		{"Hardware", reqs.Hardware},
		{"Software", reqs.Software},
	}

	var blocks []block
	for _, category := range categories {
		if len(category.items) == 0 {
			continue
		}
		blocks = append(blocks, block{kind: blockSubheading, text: category.title})
		for _, item := range category.items {
			blocks = append(blocks, block{kind: blockBullet, text: item})
		}
	}
	if len(blocks) == 0 {
		return paragraph(raw)
	}
	return blocks
}

// feasibilityBlocks renders the stored feasibility JSON as headed paragraphs,
// with the same verbatim fallback as system requirements.
func feasibilityBlocks(raw string) []block {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return paragraph(placeholderFeasibility)
	}

	var feas auratypes.FeasibilityAnalysis
	if err := json.Unmarshal([]byte(raw), &feas); err != nil {
		return paragraph(raw)
	}

	aspects := []struct {
		title string
		text  string
	}{
		{"Technical", feas.Technical},
		{"Economic", feas.Economic},
		{"Operational", feas.Operational},
		{"Schedule", feas.Schedule},
		{"Risk", feas.Risk},
	}

	var blocks []block
	for _, aspect := range aspects {
		if strings.TrimSpace(aspect.text) == "" {
			continue
		}
		blocks = append(blocks, block{kind: blockSubheading, text: aspect.title})
		blocks = append(blocks, block{kind: blockParagraph, text: aspect.text})
	}
	if len(blocks) == 0 {
		return paragraph(raw)
	}
	return blocks
}

func paragraph(text string) []block {
	return []block{{kind: blockParagraph, text: text}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
