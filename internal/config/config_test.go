package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultProvider, cfg.Provider)
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultResearchModel, cfg.ResearchModel)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("AURA_ADDR", ":8080")
	t.Setenv("AURA_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "test-anthropic-key")
	t.Setenv("AURA_DB_PATH", "/tmp/aura-test.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "test-anthropic-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "/tmp/aura-test.db", cfg.DBPath)
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	content := "AURA_CHAT_MODEL=some/chat-model\nGITHUB_TOKEN=env-file-token\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// godotenv sets process env vars; restore a clean slate afterwards.
	t.Cleanup(func() {
		os.Unsetenv("AURA_CHAT_MODEL")
		os.Unsetenv("GITHUB_TOKEN")
	})

	cfg, err := Load(envPath)
	require.NoError(t, err)

	assert.Equal(t, "some/chat-model", cfg.ChatModel)
	assert.Equal(t, "env-file-token", cfg.GitHubToken)
}

func TestLoad_MissingEnvFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.Error(t, err)
}

func TestAPIKeyForProvider(t *testing.T) {
	cfg := &Config{
		OpenRouterAPIKey: "or-key",
		AnthropicAPIKey:  "an-key",
		GoogleAPIKey:     "go-key",
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"openrouter", "or-key"},
		{"openai", "or-key"},
		{"Anthropic", "an-key"},
		{"gemini", "go-key"},
		{"google", "go-key"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.APIKeyForProvider(tt.provider))
		})
	}
}
