package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// GoogleClient implements text and JSON completions against the Gemini
// API. Selected with MODEL_PROVIDER=google instead of a local Ollama
// server.
// See https://ai.google.dev/gemini-api/docs/models/gemini for possible models
type GoogleClient struct {
	llm *googleai.GoogleAI
}

func NewGoogleClient(ctx context.Context, model, apiKey string) (*GoogleClient, error) {
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &GoogleClient{llm: llm}, nil
}

func (c *GoogleClient) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", agent.ErrModelUnavailable)
	}
	return resp.Choices[0].Content, nil
}

func (c *GoogleClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}, llms.WithJSONMode())
	if err != nil {
		return classify(err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: empty response", agent.ErrModelUnavailable)
	}

	raw := resp.Choices[0].Content
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &agent.MalformedOutputError{Raw: raw, Err: err}
	}
	return nil
}
