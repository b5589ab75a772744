package llm

import (
	"context"
	"fmt"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// NewCompleter selects the research model backend by provider name.
// Ollama serves locally-hosted models; google routes to the Gemini API.
func NewCompleter(ctx context.Context, provider, model, apiKey, serverURL string) (agent.Completer, error) {
	switch provider {
	case "ollama":
		return NewOllamaClient(serverURL, model)
	case "google":
		return NewGoogleClient(ctx, model, apiKey)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", provider)
	}
}
