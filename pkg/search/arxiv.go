package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// Arxiv answers search queries from the arXiv API. Useful as an
// offline-friendly alternative to Tavily for academic topics.
type Arxiv struct {
	maxResults int
	client     *http.Client
}

func NewArxiv() *Arxiv {
	return &Arxiv{
		maxResults: 3,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type arxivEntry struct {
	Title   string      `xml:"title"`
	Summary string      `xml:"summary"`
	Link    []arxivLink `xml:"link"`
}

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entry   []arxivEntry `xml:"entry"`
}

func (a *Arxiv) Search(ctx context.Context, query string) ([]agent.SearchResult, error) {
	params := url.Values{}
	params.Add("search_query", query)
	params.Add("max_results", strconv.Itoa(a.maxResults))
	params.Add("start", "0")

	apiURL := "https://export.arxiv.org/api/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrSearchFailure, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrSearchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: arxiv http %d", agent.ErrSearchFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrSearchFailure, err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrSearchFailure, err)
	}

	var results []agent.SearchResult
	for _, entry := range feed.Entry {
		link := ""
		for _, l := range entry.Link {
			if l.Type == "application/pdf" {
				link = l.Href
				break
			}
		}
		results = append(results, agent.SearchResult{
			Title:   strings.TrimSpace(entry.Title),
			URL:     link,
			Content: strings.TrimSpace(entry.Summary),
		})
	}
	return results, nil
}
