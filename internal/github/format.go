package github

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Activity status markers shown next to each top-ranked repository.
const (
	activityActive  = "🟢 Active"
	activityRecent  = "🟡 Recent"
	activityStable  = "🔴 Stable"
	activityUnknown = "❓ Unknown"
)

// formatRepositoryWithAnalysis renders one of the top-ranked results with its
// detail record and quality assessment.
func formatRepositoryWithAnalysis(item searchItem, details RepoDetails, quality Quality, rank int) string {
	description := details.Description
	if description == "" {
		description = item.Description
	}

	qualityEmoji := "📦"
	switch quality.Level {
	case LevelExcellent:
		qualityEmoji = "🌟"
	case LevelGood:
		qualityEmoji = "⭐"
	case LevelFair:
		qualityEmoji = "✨"
	}

	license := details.License
	licenseEmoji := "📄"
	if license == "" {
		license = "No license"
		licenseEmoji = "⚠️"
	}

	topicsLine := ""
	if len(details.Topics) > 0 {
		topics := details.Topics
		if len(topics) > 5 {
			topics = topics[:5]
		}
		topicsLine = fmt.Sprintf("\n    🏷️ **Topics:** %s", strings.Join(topics, ", "))
	}

	factors := quality.Factors
	if len(factors) > 3 {
		factors = factors[:3]
	}

	return fmt.Sprintf(`**%d. %s [%s](%s)**
    ⭐ **%s** stars | 🍴 **%s** forks | %s
    💻 **Languages:** %s
    %s **License:** %s
    📝 **Description:** %s
    📊 **Quality Score:** %d/100 (%s)
    ✅ **Key Factors:** %s%s

    ---`,
		rank, qualityEmoji, item.FullName, item.HTMLURL,
		humanize.Comma(int64(item.StargazersCount)), humanize.Comma(int64(item.ForksCount)), activityStatus(details.UpdatedAt),
		languageSummary(item.Language, details.Languages),
		licenseEmoji, license,
		truncateDescription(description, 25),
		quality.Score, quality.Level,
		strings.Join(factors, ", "), topicsLine)
}

// formatRepositoryBasic renders a lower-ranked result without the detail
// fetch.
func formatRepositoryBasic(item searchItem, rank int) string {
	language := item.Language
	if language == "" {
		language = "Not specified"
	}

	return fmt.Sprintf(`**%d. 📦 [%s](%s)**
    ⭐ %s stars | 💻 %s
    📝 %s

    ---`,
		rank, item.FullName, item.HTMLURL,
		humanize.Comma(int64(item.StargazersCount)), language,
		truncateDescription(item.Description, 15))
}

// activityStatus buckets the last-update timestamp; missing or unparseable
// data degrades to Unknown instead of failing the result.
func activityStatus(updatedAt string) string {
	days, ok := daysSinceUpdate(updatedAt)
	if !ok {
		return activityUnknown
	}
	switch {
	case days < 30:
		return activityActive
	case days < 90:
		return activityRecent
	default:
		return activityStable
	}
}

// languageSummary renders the top three languages with byte-share
// percentages, falling back to the search item's primary language.
func languageSummary(primary string, languages map[string]int) string {
	if len(languages) == 0 {
		if primary == "" {
			return "Not specified"
		}
		return primary
	}

	total := 0
	names := make([]string, 0, len(languages))
	for name, count := range languages {
		total += count
		names = append(names, name)
	}
	if total == 0 {
		return primary
	}

	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 3 {
		names = names[:3]
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		percentage := float64(languages[name]) / float64(total) * 100
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", name, percentage))
	}
	return strings.Join(parts, ", ")
}

// truncateDescription trims a description to wordLimit words.
func truncateDescription(text string, wordLimit int) string {
	if text == "" {
		return "No description available."
	}

	text = strings.Join(strings.Fields(text), " ")
	words := strings.Fields(text)
	if len(words) > wordLimit {
		return strings.Join(words[:wordLimit], " ") + "..."
	}
	return text
}
