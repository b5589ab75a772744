package rag

import (
	"context"
	"fmt"

	"github.com/mikeboe/pdf-chat/pkg/agent"
	"github.com/mikeboe/pdf-chat/pkg/embeddings"
	"github.com/mikeboe/pdf-chat/pkg/vectorstore"
)

// Retriever answers similarity queries against ingested documents.
type Retriever struct {
	store    *vectorstore.PGVectorStore
	embedder embeddings.Embedder
}

func NewRetriever(store *vectorstore.PGVectorStore, embedder embeddings.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve embeds the query and returns the topK most similar chunks.
// A non-empty documentID restricts results to that source document.
func (r *Retriever) Retrieve(ctx context.Context, query, documentID string, topK int) ([]agent.Passage, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", agent.ErrRetrievalFailure, err)
	}

	results, err := r.store.SimilaritySearch(ctx, vector, topK, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrRetrievalFailure, err)
	}

	passages := make([]agent.Passage, 0, len(results))
	for _, res := range results {
		passages = append(passages, agent.Passage{
			Content:  res.Document.Content,
			Score:    res.Score,
			Metadata: res.Document.Metadata,
		})
	}
	return passages, nil
}
