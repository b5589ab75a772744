package search

import (
	"fmt"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// NewProvider selects a search backend by name.
func NewProvider(name, tavilyApiKey string) (agent.SearchProvider, error) {
	switch name {
	case "tavily":
		return NewTavily(tavilyApiKey), nil
	case "arxiv":
		return NewArxiv(), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", name)
	}
}
