package llm

import (
	"fmt"
	"sync"

	"aura/internal/logger"
)

// Factory manages the creation and caching of completion clients based on
// provider name and API key.
type Factory struct {
	clients map[string]Client
	mutex   sync.RWMutex
}

// NewFactory creates a new client factory.
func NewFactory() *Factory {
	return &Factory{
		clients: make(map[string]Client),
	}
}

// ClientForProvider returns a completion client for the specified provider
// and API key, reusing a cached client when one exists.
func (f *Factory) ClientForProvider(provider, apiKey string) (Client, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key cannot be empty for provider '%s'", provider)
	}

	cacheKey := fmt.Sprintf("%s:%s", provider, apiKey)

	f.mutex.RLock()
	if client, exists := f.clients[cacheKey]; exists {
		f.mutex.RUnlock()
		logger.Debug("Returning cached provider client", "provider", provider)
		return client, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Double-check pattern
	if client, exists := f.clients[cacheKey]; exists {
		return client, nil
	}

	var client Client
	switch provider {
	case "openrouter", "openai":
		client = NewOpenRouterClient(apiKey)
	case "anthropic":
		client = NewAnthropicClient(apiKey)
	case "gemini", "google":
		client = NewGeminiClient(apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	f.clients[cacheKey] = client
	logger.Debug("Created new provider client", "provider", provider)
	return client, nil
}
