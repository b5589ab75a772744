// Package search implements the web search port against the Tavily API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily posts queries to the Tavily search API.
type Tavily struct {
	apiKey     string
	depth      string
	maxResults int
	endpoint   string
	client     *http.Client
}

func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		apiKey:     apiKey,
		depth:      "advanced",
		maxResults: 3,
		endpoint:   tavilyEndpoint,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewTavilyWithClient is useful for overriding the default HTTP client in
// tests or to change the timeout.
func NewTavilyWithClient(apiKey string, client *http.Client) *Tavily {
	t := NewTavily(apiKey)
	t.client = client
	return t
}

func (t *Tavily) Search(ctx context.Context, query string) ([]agent.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, fmt.Errorf("%w: tavily API key is missing", agent.ErrSearchFailure)
	}

	payload, err := json.Marshal(map[string]any{
		"api_key":      t.apiKey,
		"query":        query,
		"search_depth": t.depth,
		"max_results":  t.maxResults,
	})
	if err != nil {
		return nil, err
	}

	// Retry on 429 with doubling delay, capped at 30s. Retrying here keeps the
	// workflow engine itself retry-free.
	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", agent.ErrSearchFailure, err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tavily http %d", agent.ErrSearchFailure, resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", agent.ErrSearchFailure, err)
	}

	results := make([]agent.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, agent.SearchResult{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return results, nil
}
