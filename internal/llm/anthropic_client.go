package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"aura/internal/logger"
	"aura/pkg/auratypes"
)

// anthropicDefaultMaxTokens bounds responses when the caller supplies no limit;
// the Anthropic API requires max_tokens on every request.
const anthropicDefaultMaxTokens = 4096

// AnthropicClient implements the Client interface for Anthropic's API.
// The underlying SDK client is created lazily on the first request.
type AnthropicClient struct {
	apiKey string
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey}
}

// ProviderName returns the provider name for this client.
func (c *AnthropicClient) ProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the SDK client if it hasn't been initialized yet.
func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("anthropic API key not configured")
	}

	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// Complete sends a chat completion request to Anthropic.
func (c *AnthropicClient) Complete(ctx context.Context, messages []auratypes.Message, model string, temperature float64) (string, error) {
	logger.Debug("Anthropic completion starting", "model", model, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize Anthropic client: %w", err)
	}

	converted, systemPrompt := convertMessagesToAnthropic(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   anthropicDefaultMaxTokens,
		Messages:    converted,
		Temperature: anthropic.Float(temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("Anthropic request failed", "error", err)
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("no response content returned")
	}

	var content string
	for _, block := range message.Content {
		content += block.Text
	}
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	logger.Debug("Anthropic response received", "content_length", len(content))
	return content, nil
}

// convertMessagesToAnthropic converts AURA messages to Anthropic format.
// System messages are collected separately because the Anthropic API takes
// the system prompt outside the message list.
func convertMessagesToAnthropic(messages []auratypes.Message) ([]anthropic.MessageParam, string) {
	converted := make([]anthropic.MessageParam, 0, len(messages))
	var systemParts []string

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			converted = append(converted, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case "system":
			systemParts = append(systemParts, msg.Content)
		default:
			// Skip unknown roles
			continue
		}
	}

	var systemPrompt string
	for i, part := range systemParts {
		if i > 0 {
			systemPrompt += "\n\n"
		}
		systemPrompt += part
	}

	return converted, systemPrompt
}
