package github

import (
	"strconv"
	"strings"
)

// Trends aggregates activity and popularity across a set of formatted search
// results.
type Trends struct {
	TotalRepositories    int            `json:"total_repositories"`
	AverageStars         int            `json:"average_stars"`
	TotalStars           int            `json:"total_stars"`
	ActivityDistribution map[string]int `json:"activity_distribution"`
	DominantActivity     string         `json:"dominant_activity"`
}

// AnalyzeTrends scrapes the formatted result strings back into aggregate
// numbers. It operates on the presentation format because callers hold only
// the formatted summaries at this point; a repo whose stars cannot be
// recovered contributes zero.
func AnalyzeTrends(repos []string) *Trends {
	if len(repos) == 0 {
		return nil
	}

	totalStars := 0
	activity := map[string]int{"Active": 0, "Recent": 0, "Stable": 0}

	for _, repo := range repos {
		totalStars += scrapeStars(repo)

		switch {
		case strings.Contains(repo, activityActive):
			activity["Active"]++
		case strings.Contains(repo, activityRecent):
			activity["Recent"]++
		case strings.Contains(repo, activityStable):
			activity["Stable"]++
		}
	}

	dominant := "Unknown"
	best := 0
	for _, name := range []string{"Active", "Recent", "Stable"} {
		if activity[name] > best {
			best = activity[name]
			dominant = name
		}
	}

	return &Trends{
		TotalRepositories:    len(repos),
		AverageStars:         totalStars / len(repos),
		TotalStars:           totalStars,
		ActivityDistribution: activity,
		DominantActivity:     dominant,
	}
}

// scrapeStars pulls the star count out of a formatted summary line.
func scrapeStars(repo string) int {
	_, after, found := strings.Cut(repo, "⭐")
	if !found {
		return 0
	}
	starsPart, _, found := strings.Cut(after, "stars")
	if !found {
		return 0
	}

	starsPart = strings.ReplaceAll(starsPart, "*", "")
	starsPart = strings.ReplaceAll(starsPart, ",", "")
	starsPart = strings.TrimSpace(strings.Trim(starsPart, " |"))

	stars, err := strconv.Atoi(starsPart)
	if err != nil {
		return 0
	}
	return stars
}
