package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"aura/internal/logger"
	"aura/pkg/auratypes"
)

// OpenRouter speaks the OpenAI Chat Completions API, so the stock OpenAI SDK
// pointed at a different base URL covers it.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Attribution headers OpenRouter uses for app rankings.
const (
	openRouterReferer = "https://aura-research-app.com"
	openRouterTitle   = "AURA Research Assistant"
)

// OpenRouterClient implements the Client interface against OpenRouter's
// OpenAI-compatible endpoint. The underlying SDK client is created lazily on
// the first request.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	client  *openai.Client
}

// NewOpenRouterClient creates a new OpenRouter client with lazy initialization.
func NewOpenRouterClient(apiKey string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: openRouterBaseURL,
	}
}

// NewOpenRouterClientWithBaseURL creates a client against a custom
// OpenAI-compatible endpoint. Used by tests and self-hosted gateways.
func NewOpenRouterClientWithBaseURL(apiKey, baseURL string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// ProviderName returns the provider name for this client.
func (c *OpenRouterClient) ProviderName() string {
	return "openrouter"
}

// IsConfigured returns true if the client has a valid API key.
func (c *OpenRouterClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the SDK client if it hasn't been initialized yet.
func (c *OpenRouterClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("OpenRouter API key not configured")
	}

	client := openai.NewClient(
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithHeader("HTTP-Referer", openRouterReferer),
		option.WithHeader("X-Title", openRouterTitle),
	)
	c.client = &client

	logger.Debug("OpenRouter client initialized", "provider", "openrouter", "baseURL", c.baseURL)
	return nil
}

// Complete sends a chat completion request to OpenRouter.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []auratypes.Message, model string, temperature float64) (string, error) {
	logger.Debug("OpenRouter completion starting", "model", model, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize OpenRouter client: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    convertMessagesToOpenAI(messages),
		Temperature: openai.Float(temperature),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenRouter request failed", "error", err)
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	logger.Debug("OpenRouter response received", "content_length", len(content))
	return content, nil
}

// convertMessagesToOpenAI converts AURA messages to the SDK's union type.
func convertMessagesToOpenAI(messages []auratypes.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			converted = append(converted, openai.UserMessage(msg.Content))
		case "assistant":
			converted = append(converted, openai.AssistantMessage(msg.Content))
		case "system":
			converted = append(converted, openai.SystemMessage(msg.Content))
		default:
			// Skip unknown roles
			continue
		}
	}

	return converted
}
