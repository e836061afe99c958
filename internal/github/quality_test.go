package github

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeQuality_Tiers(t *testing.T) {
	recent := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name      string
		details   RepoDetails
		wantScore int
		wantLevel string
	}{
		{
			name:      "empty record scores zero",
			details:   RepoDetails{},
			wantScore: 0,
			wantLevel: LevelBasic,
		},
		{
			name: "everything maxed",
			details: RepoDetails{
				Name:      "big",
				Stars:     5000,
				UpdatedAt: recent,
				HasWiki:   true,
				License:   "MIT License",
				Languages: map[string]int{"Go": 1, "Shell": 1},
				Topics:    []string{"a", "b", "c", "d"},
			},
			// 30 + 25 + 15 + 10 + 10 + 10 = 100
			wantScore: 100,
			wantLevel: LevelExcellent,
		},
		{
			name: "mid popularity with license",
			details: RepoDetails{
				Stars:   500,
				License: "Apache-2.0",
			},
			wantScore: 30,
			wantLevel: LevelFair,
		},
		{
			name: "stars tier boundary",
			details: RepoDetails{
				Stars: 11,
			},
			wantScore: 10,
			wantLevel: LevelBasic,
		},
		{
			name: "bad timestamp contributes nothing",
			details: RepoDetails{
				Stars:     2000,
				UpdatedAt: "yesterday-ish",
				License:   "MIT",
			},
			wantScore: 40,
			wantLevel: LevelFair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quality := analyzeQuality(tt.details)
			assert.Equal(t, tt.wantScore, quality.Score)
			assert.Equal(t, tt.wantLevel, quality.Level)
		})
	}
}

func TestActivityStatus(t *testing.T) {
	now := time.Now().UTC()

	assert.Equal(t, activityActive, activityStatus(now.Add(-5*24*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, activityRecent, activityStatus(now.Add(-60*24*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, activityStable, activityStatus(now.Add(-400*24*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, activityUnknown, activityStatus(""))
	assert.Equal(t, activityUnknown, activityStatus("not a timestamp"))
}

func TestTruncateDescription(t *testing.T) {
	assert.Equal(t, "No description available.", truncateDescription("", 25))
	assert.Equal(t, "short text", truncateDescription("short  text", 25))

	long := "one two three four five six"
	assert.Equal(t, "one two three...", truncateDescription(long, 3))
}

func TestLanguageSummary(t *testing.T) {
	assert.Equal(t, "Not specified", languageSummary("", nil))
	assert.Equal(t, "Go", languageSummary("Go", nil))

	summary := languageSummary("Go", map[string]int{"Go": 7500, "Shell": 1500, "Make": 500, "Dockerfile": 500})
	assert.Contains(t, summary, "Go (75.0%)")
	assert.Contains(t, summary, "Shell (15.0%)")
	assert.NotContains(t, summary, "Dockerfile")
}

func TestAnalyzeTrends(t *testing.T) {
	assert.Nil(t, AnalyzeTrends(nil))

	repos := []string{
		"**1. 🌟 [a/b](u)**\n    ⭐ **1,500** stars | 🍴 **40** forks | " + activityActive,
		"**2. 📦 [c/d](u)**\n    ⭐ 500 stars | 💻 Go",
		"**3. 🌟 [e/f](u)**\n    ⭐ **1,000** stars | 🍴 **4** forks | " + activityStable,
	}

	trends := AnalyzeTrends(repos)
	assert.Equal(t, 3, trends.TotalRepositories)
	assert.Equal(t, 3000, trends.TotalStars)
	assert.Equal(t, 1000, trends.AverageStars)
	assert.Equal(t, 1, trends.ActivityDistribution["Active"])
	assert.Equal(t, 1, trends.ActivityDistribution["Stable"])
	assert.Equal(t, "Active", trends.DominantActivity)
}
