package agent

import "context"

// SearchResult is a single hit returned by a web search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Passage is one retrieved chunk from the vector index.
type Passage struct {
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Completer is the language-model port. CompleteJSON expects the model to
// return a JSON object that unmarshals into out; a parse failure surfaces as
// *MalformedOutputError, which callers treat as recoverable.
type Completer interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// ImageAnalyzer combines an image with the research topic into a textual
// synthesis. Implementations return "" when no image is supplied.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, topic, base64Image string) (string, error)
}

// SearchProvider executes one web search query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Retriever performs similarity search over the vector index of one document.
type Retriever interface {
	Retrieve(ctx context.Context, query, documentID string, topK int) ([]Passage, error)
}
