// Package config loads AURA's runtime configuration from environment
// variables and optional .env files.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"aura/internal/logger"
)

// Defaults applied when neither the environment nor a .env file provides a value.
const (
	DefaultAddr          = ":5000"
	DefaultProvider      = "openrouter"
	DefaultChatModel     = "nvidia/nemotron-nano-12b-v2-vl:free"
	DefaultResearchModel = "nvidia/nemotron-nano-12b-v2-vl:free"
	DefaultOutputDir     = "outputs"
)

// Config holds everything the server needs at construction time.
// A missing API key or DB path is not an error here; the affected
// component degrades per its own fallback policy.
type Config struct {
	Addr      string
	LogLevel  string
	OutputDir string

	Provider      string
	ChatModel     string
	ResearchModel string

	OpenRouterAPIKey string
	AnthropicAPIKey  string
	GoogleAPIKey     string
	GitHubToken      string

	// DBPath selects the durable session store. Empty means the
	// process-local volatile store.
	DBPath string
}

// Load reads configuration with priority: process env > .env file > defaults.
// envFile may be empty, in which case ./.env is tried and silently skipped
// when absent.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, err
		}
		logger.Debug("Env file loaded", "path", envFile)
	} else if err := godotenv.Load(); err == nil {
		logger.Debug("Env file loaded", "path", ".env")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("AURA_ADDR", DefaultAddr)
	v.SetDefault("AURA_PROVIDER", DefaultProvider)
	v.SetDefault("AURA_CHAT_MODEL", DefaultChatModel)
	v.SetDefault("AURA_RESEARCH_MODEL", DefaultResearchModel)
	v.SetDefault("AURA_OUTPUT_DIR", DefaultOutputDir)

	cfg := &Config{
		Addr:             v.GetString("AURA_ADDR"),
		LogLevel:         v.GetString("AURA_LOG_LEVEL"),
		OutputDir:        v.GetString("AURA_OUTPUT_DIR"),
		Provider:         v.GetString("AURA_PROVIDER"),
		ChatModel:        v.GetString("AURA_CHAT_MODEL"),
		ResearchModel:    v.GetString("AURA_RESEARCH_MODEL"),
		OpenRouterAPIKey: v.GetString("OPENROUTER_API_KEY"),
		AnthropicAPIKey:  v.GetString("ANTHROPIC_API_KEY"),
		GoogleAPIKey:     v.GetString("GOOGLE_API_KEY"),
		GitHubToken:      v.GetString("GITHUB_TOKEN"),
		DBPath:           v.GetString("AURA_DB_PATH"),
	}

	return cfg, nil
}

// APIKeyForProvider returns the key configured for the named provider.
func (c *Config) APIKeyForProvider(provider string) string {
	switch strings.ToLower(provider) {
	case "openrouter", "openai":
		return c.OpenRouterAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini", "google":
		return c.GoogleAPIKey
	default:
		return ""
	}
}
