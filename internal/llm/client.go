// Package llm provides completion-provider clients for the AURA backend.
// The primary provider is OpenRouter through the OpenAI SDK; Anthropic and
// Gemini are supported directly for deployments that hold their own keys.
package llm

import (
	"context"

	"aura/pkg/auratypes"
)

// NotConfiguredReply is the fixed user-facing string returned by callers when
// no completion provider is configured. Clients themselves return errors; the
// conversation layer decides how failures read to the end user.
const NotConfiguredReply = "AI service not configured. Please set OPENROUTER_API_KEY environment variable."

// Client is the completion provider consumed by the conversation core.
// Implementations must be safe for concurrent use after construction.
type Client interface {
	// ProviderName identifies the backing provider ("openrouter", "anthropic", "gemini").
	ProviderName() string

	// IsConfigured reports whether the client holds the credentials it needs.
	IsConfigured() bool

	// Complete sends role-tagged messages and returns the generated text.
	Complete(ctx context.Context, messages []auratypes.Message, model string, temperature float64) (string, error)
}
