// Package embeddings provides the text embedders used for PDF ingestion and
// retrieval queries. Two providers are supported: a locally-hosted Ollama
// model and the Gemini embedding API.
package embeddings

import (
	"context"
	"fmt"
)

// Embedder converts text into vectors of a fixed dimension.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// New selects an embedder by provider name.
func New(ctx context.Context, provider, model, apiKey, serverURL string, dimension int) (Embedder, error) {
	switch provider {
	case "ollama":
		return NewOllamaEmbedder(serverURL, model, dimension)
	case "google":
		return NewGoogleEmbedder(ctx, model, apiKey)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
