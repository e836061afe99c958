package github

import (
	"strings"
	"time"
)

// Qualitative levels for the heuristic quality score.
const (
	LevelExcellent = "Excellent"
	LevelGood      = "Good"
	LevelFair      = "Fair"
	LevelBasic     = "Basic"
)

// Quality is the heuristic assessment of one repository.
type Quality struct {
	Score   int
	Level   string
	Factors []string
}

// analyzeQuality computes a weighted score over popularity, recency,
// documentation, licensing, language diversity, and topic coverage. The
// score is capped at 100 and bucketed into four levels. Missing fields
// simply contribute nothing.
func analyzeQuality(details RepoDetails) Quality {
	score := 0
	var factors []string

	switch {
	case details.Stars > 1000:
		score += 30
		factors = append(factors, "High community adoption")
	case details.Stars > 100:
		score += 20
		factors = append(factors, "Good community interest")
	case details.Stars > 10:
		score += 10
		factors = append(factors, "Some community validation")
	}

	if days, ok := daysSinceUpdate(details.UpdatedAt); ok {
		switch {
		case days < 30:
			score += 25
			factors = append(factors, "Recently active")
		case days < 90:
			score += 15
			factors = append(factors, "Moderately active")
		case days < 365:
			score += 5
			factors = append(factors, "Somewhat maintained")
		}
	}

	if hasDocumentation(details) {
		score += 15
		factors = append(factors, "Well documented")
	}

	if details.License != "" {
		score += 10
		factors = append(factors, "Open source licensed")
	}

	if len(details.Languages) > 1 {
		score += 10
		factors = append(factors, "Multi-language implementation")
	}

	if len(details.Topics) > 3 {
		score += 10
		factors = append(factors, "Well categorized")
	}

	if score > 100 {
		score = 100
	}

	level := LevelBasic
	switch {
	case score >= 70:
		level = LevelExcellent
	case score >= 50:
		level = LevelGood
	case score >= 30:
		level = LevelFair
	}

	return Quality{Score: score, Level: level, Factors: factors}
}

func hasDocumentation(details RepoDetails) bool {
	return details.HasWiki || strings.Contains(strings.ToLower(details.Name), "readme")
}

// daysSinceUpdate parses the API's RFC3339 timestamp; ok is false when the
// field is missing or malformed.
func daysSinceUpdate(updatedAt string) (int, bool) {
	if updatedAt == "" {
		return 0, false
	}
	ts, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return 0, false
	}
	return int(time.Since(ts).Hours() / 24), true
}
