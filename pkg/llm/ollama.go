// Package llm provides Ollama-backed implementations of the agent's
// completion and image-analysis ports.
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// OllamaClient wraps a locally-hosted text model behind the Completer port.
type OllamaClient struct {
	llm *ollama.LLM
}

func NewOllamaClient(serverURL, model string) (*OllamaClient, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llmClient, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init ollama client: %w", err)
	}
	return &OllamaClient{llm: llmClient}, nil
}

func (c *OllamaClient) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", agent.ErrModelUnavailable)
	}
	return resp.Choices[0].Content, nil
}

func (c *OllamaClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}, llms.WithJSONMode())
	if err != nil {
		return classify(err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: model returned no choices", agent.ErrModelUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return &agent.MalformedOutputError{Raw: content, Err: err}
	}
	return nil
}

// OllamaVision wraps a locally-hosted vision model behind the ImageAnalyzer
// port.
type OllamaVision struct {
	llm *ollama.LLM
}

func NewOllamaVision(serverURL, model string) (*OllamaVision, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llmClient, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init ollama vision client: %w", err)
	}
	return &OllamaVision{llm: llmClient}, nil
}

const imageAnalysisSystemPrompt = `Analyze the image and combine it with the user's text input
to generate a comprehensive understanding. Focus on technical and relevant details.`

func (v *OllamaVision) AnalyzeImage(ctx context.Context, topic, base64Image string) (string, error) {
	if base64Image == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return "", fmt.Errorf("invalid base64 image data: %w", err)
	}

	resp, err := v.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, imageAnalysisSystemPrompt),
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart("image/png", raw),
				llms.TextPart(topic),
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", agent.ErrModelUnavailable)
	}
	return resp.Choices[0].Content, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", agent.ErrModelTimeout, err)
	}
	return fmt.Errorf("%w: %v", agent.ErrModelUnavailable, err)
}
