package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaDimension = 1024 // mxbai-embed-large

// OllamaEmbedder embeds text with a locally-hosted Ollama model.
type OllamaEmbedder struct {
	embedder  *lcembeddings.EmbedderImpl
	dimension int
}

func NewOllamaEmbedder(serverURL, model string, dimension int) (*OllamaEmbedder, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init ollama embedding model: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	if dimension <= 0 {
		dimension = defaultOllamaDimension
	}
	return &OllamaEmbedder{embedder: embedder, dimension: dimension}, nil
}

func (e *OllamaEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	return vec, nil
}

func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	return vecs, nil
}

func (e *OllamaEmbedder) Dimension() int { return e.dimension }
