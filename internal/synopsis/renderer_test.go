package synopsis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/pkg/auratypes"
)

func TestRender_EmptyMemoryProducesDocument(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir)

	filename, err := renderer.Render(auratypes.SessionMemory{}, "Smart Irrigation System")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "synopsis_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	info, err := os.Stat(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000), "document should not be empty")
}

func TestRender_CreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	renderer := NewRenderer(dir)

	mem := auratypes.SessionMemory{
		Title:        "Crop Health Monitor",
		GroupDetails: "Team 7: A, B, C",
		ResearchResults: &auratypes.ResearchResults{
			Introduction:        "An introduction.",
			LiteratureReview:    "A review.",
			Methodology:         "A methodology.",
			SystemRequirements:  `{"functional": ["sense moisture"]}`,
			FeasibilityAnalysis: `{"technical": "feasible"}`,
		},
	}

	filename, err := renderer.Render(mem, "")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, dir, renderer.OutputDir())
}
