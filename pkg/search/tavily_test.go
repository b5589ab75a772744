package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

func newTestTavily(ts *httptest.Server) *Tavily {
	t := NewTavilyWithClient("test-key", ts.Client())
	t.endpoint = ts.URL
	return t
}

func TestTavilySearch(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "First", "url": "http://one", "content": "alpha"},
				{"title": "Second", "url": "http://two", "content": "beta"},
			},
		})
	}))
	defer ts.Close()

	results, err := newTestTavily(ts).Search(context.Background(), "test query")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "First" || results[0].URL != "http://one" || results[0].Content != "alpha" {
		t.Errorf("first result = %+v", results[0])
	}
	if gotBody["query"] != "test query" || gotBody["api_key"] != "test-key" {
		t.Errorf("request body = %v", gotBody)
	}
	if gotBody["search_depth"] != "advanced" {
		t.Errorf("search_depth = %v, want advanced", gotBody["search_depth"])
	}
}

func TestTavilySearchRetriesRateLimit(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{{"title": "ok", "url": "http://u"}},
		})
	}))
	defer ts.Close()

	results, err := newTestTavily(ts).Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want retry after 429", calls)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestTavilySearchServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestTavily(ts).Search(context.Background(), "q")
	if !errors.Is(err, agent.ErrSearchFailure) {
		t.Fatalf("Search() error = %v, want ErrSearchFailure", err)
	}
}

func TestTavilySearchMissingKey(t *testing.T) {
	_, err := NewTavily("").Search(context.Background(), "q")
	if !errors.Is(err, agent.ErrSearchFailure) {
		t.Fatalf("Search() error = %v, want ErrSearchFailure", err)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider("tavily", "k"); err != nil {
		t.Errorf("tavily provider: %v", err)
	}
	if _, err := NewProvider("arxiv", ""); err != nil {
		t.Errorf("arxiv provider: %v", err)
	}
	if _, err := NewProvider("bing", ""); err == nil {
		t.Error("expected error for unknown provider")
	}
}
