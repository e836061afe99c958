package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"aura/internal/logger"
	"aura/pkg/auratypes"
)

// GeminiClient implements the Client interface for the Google Gemini API.
// The underlying SDK client is created lazily on the first request.
type GeminiClient struct {
	apiKey string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey}
}

// ProviderName returns the provider name for this client.
func (c *GeminiClient) ProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has a valid API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the SDK client if it hasn't been initialized yet.
func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("google API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client

	logger.Debug("Gemini client initialized", "provider", "gemini")
	return nil
}

// Complete sends a chat completion request to Google Gemini.
func (c *GeminiClient) Complete(ctx context.Context, messages []auratypes.Message, model string, temperature float64) (string, error) {
	logger.Debug("Gemini completion starting", "model", model, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	contents, systemInstruction := convertMessagesToGemini(messages)

	temp := float32(temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	content := result.Text()
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	logger.Debug("Gemini response received", "content_length", len(content))
	return content, nil
}

// convertMessagesToGemini converts AURA messages to Gemini content. Gemini
// uses "model" for the assistant role and takes the system instruction
// through the generation config rather than the content list.
func convertMessagesToGemini(messages []auratypes.Message) ([]*genai.Content, string) {
	contents := make([]*genai.Content, 0, len(messages))
	var systemInstruction string

	for _, msg := range messages {
		var role string
		switch msg.Role {
		case "user":
			role = "user"
		case "assistant":
			role = "model"
		case "system":
			if systemInstruction != "" {
				systemInstruction += "\n\n"
			}
			systemInstruction += msg.Content
			continue
		default:
			// Skip unknown roles
			continue
		}

		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: msg.Content}},
			Role:  role,
		})
	}

	return contents, systemInstruction
}
