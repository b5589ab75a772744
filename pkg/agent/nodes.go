package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Router decisions for the reflection edge.
const (
	decisionContinue = "continue_research"
	decisionFinalize = "finalize"
)

// Nodes bundles the capability ports with the workflow configuration. Each
// method is one node: a pure function from state to a partial update. Port
// failures are absorbed (logged, empty update) everywhere except
// FinalizeSummary, which is the terminal production step.
type Nodes struct {
	cfg       Config
	completer Completer
	images    ImageAnalyzer
	search    SearchProvider
	retriever Retriever
	logger    *slog.Logger
}

func NewNodes(cfg Config, completer Completer, images ImageAnalyzer, search SearchProvider, retriever Retriever, logger *slog.Logger) *Nodes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Nodes{
		cfg:       cfg,
		completer: completer,
		images:    images,
		search:    search,
		retriever: retriever,
		logger:    logger,
	}
}

// ProcessImage seeds the running summary from the image synthesis when image
// chat is enabled and an image is present.
func (n *Nodes) ProcessImage(ctx context.Context, state *State) (Update, error) {
	if !state.EnableChatWithPicture || state.Base64Image == "" {
		return Update{}, nil
	}

	synthesis, err := n.images.AnalyzeImage(ctx, state.ResearchTopic, state.Base64Image)
	if err != nil {
		n.logger.Warn("Image analysis failed", "error", err)
		return Update{}, nil
	}
	if synthesis == "" {
		return Update{}, nil
	}
	return Update{RunningSummary: strPtr(synthesis)}, nil
}

// GenerateQuery asks the model for an initial web search query.
func (n *Nodes) GenerateQuery(ctx context.Context, state *State) (Update, error) {
	if !state.EnableWebResearch {
		return Update{}, nil
	}

	var out struct {
		Query string `json:"query"`
	}
	prompt := fmt.Sprintf(queryWriterInstructions, state.ResearchTopic)
	if err := n.completer.CompleteJSON(ctx, prompt, "Generate a query for web search:", &out); err != nil {
		n.logger.Warn("Query generation failed", "error", err)
		return Update{}, nil
	}
	if out.Query == "" {
		n.logger.Warn("Query generation returned an empty query")
		return Update{}, nil
	}
	return Update{SearchQuery: strPtr(out.Query)}, nil
}

// WebResearch runs one search round. The loop counter advances only on a
// successful search; the attempt counter advances on every execution while
// web research is enabled, so the cycle terminates even when no query was
// ever produced or the provider fails permanently.
func (n *Nodes) WebResearch(ctx context.Context, state *State) (Update, error) {
	if !state.EnableWebResearch {
		return Update{}, nil
	}

	attempts := state.WebResearchAttempts + 1
	if state.SearchQuery == "" {
		n.logger.Warn("No search query available, skipping search round")
		return Update{WebResearchAttempts: intPtr(attempts)}, nil
	}

	results, err := n.search.Search(ctx, state.SearchQuery)
	if err != nil || len(results) == 0 {
		n.logger.Warn("Web research failed", "query", state.SearchQuery, "error", err)
		return Update{WebResearchAttempts: intPtr(attempts)}, nil
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, fmt.Sprintf("* %s: %s", r.Title, r.URL))
	}

	return Update{
		WebResearchResults:  []string{formatSearchResults(results)},
		SourcesGathered:     sources,
		ResearchLoopCount:   intPtr(state.ResearchLoopCount + 1),
		WebResearchAttempts: intPtr(attempts),
	}, nil
}

func formatSearchResults(results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Sources:\n\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("Source: %s\n", r.Title))
		sb.WriteString(fmt.Sprintf("URL: %s\n", r.URL))
		sb.WriteString(fmt.Sprintf("Content: %s\n\n", r.Content))
	}
	return sb.String()
}

// SummarizeSources extends the running summary with the newest search round.
// The summary is guaranteed non-empty afterwards: with no web results (or a
// failed completion) it falls back to the current summary or the topic.
func (n *Nodes) SummarizeSources(ctx context.Context, state *State) (Update, error) {
	fallback := state.RunningSummary
	if fallback == "" {
		fallback = state.ResearchTopic
	}

	if len(state.WebResearchResults) == 0 {
		return Update{RunningSummary: strPtr(fallback)}, nil
	}

	latest := state.WebResearchResults[len(state.WebResearchResults)-1]
	prompt := fmt.Sprintf("Extend the existing summary: %s\n\nInclude new search results: %s\nThat addresses the following topic: %s",
		state.RunningSummary, latest, state.ResearchTopic)

	summary, err := n.completer.CompleteText(ctx, summarizerInstructions, prompt)
	if err != nil {
		n.logger.Warn("Summarization failed", "error", err)
		return Update{RunningSummary: strPtr(fallback)}, nil
	}
	return Update{RunningSummary: strPtr(summary)}, nil
}

// ReflectOnSummary proposes a follow-up query for the next research round. A
// failed or malformed reflection keeps the previous query; the router decides
// termination on its own.
func (n *Nodes) ReflectOnSummary(ctx context.Context, state *State) (Update, error) {
	if !state.EnableWebResearch {
		return Update{}, nil
	}

	var out struct {
		KnowledgeGap  string `json:"knowledge_gap"`
		FollowUpQuery string `json:"follow_up_query"`
	}
	prompt := fmt.Sprintf(reflectionInstructions, state.ResearchTopic)
	user := "Identify a knowledge gap and generate a follow-up web search query based on our existing knowledge: " + state.RunningSummary
	if err := n.completer.CompleteJSON(ctx, prompt, user, &out); err != nil {
		n.logger.Warn("Reflection failed", "error", err)
		return Update{}, nil
	}
	if out.FollowUpQuery == "" {
		n.logger.Warn("Reflection returned no follow-up query", "knowledge_gap", out.KnowledgeGap)
		return Update{}, nil
	}
	return Update{SearchQuery: strPtr(out.FollowUpQuery)}, nil
}

// RouteResearch is the single decision point of the graph. It continues the
// research cycle only while both the success counter and the attempt counter
// are under the loop budget, which bounds the cycle regardless of model and
// search behavior.
func (n *Nodes) RouteResearch(state *State) string {
	if state.EnableWebResearch &&
		state.ResearchLoopCount < n.cfg.MaxWebResearchLoops &&
		state.WebResearchAttempts < n.cfg.MaxWebResearchLoops {
		return decisionContinue
	}
	return decisionFinalize
}

// SearchFAISS retrieves passages from the document's vector index using the
// running summary as the query.
func (n *Nodes) SearchFAISS(ctx context.Context, state *State) (Update, error) {
	if state.PDFFilename == "" {
		n.logger.Info("No PDF filename set, skipping vector retrieval")
		return Update{}, nil
	}

	passages, err := n.retriever.Retrieve(ctx, state.RunningSummary, state.PDFFilename, n.cfg.TopK)
	if err != nil {
		n.logger.Warn("Vector retrieval failed", "pdf", state.PDFFilename, "error", err)
		return Update{}, nil
	}
	n.logger.Info("Vector retrieval complete", "pdf", state.PDFFilename, "passages", len(passages))
	return Update{FAISSResults: passages}, nil
}

// FinalizeSummary produces the final answer. This is the only node whose port
// failure propagates to the caller.
func (n *Nodes) FinalizeSummary(ctx context.Context, state *State) (Update, error) {
	var passages []string
	for _, p := range state.FAISSResults {
		passages = append(passages, p.Content)
	}

	prompt := fmt.Sprintf(
		"Research topic:\n%s\n\nCurrent summary:\n%s\n\nRelevant passages from the document:\n%s",
		state.ResearchTopic, state.RunningSummary, strings.Join(passages, "\n\n"))

	final, err := n.completer.CompleteText(ctx, finalSummarizeInstructions+"\n"+mathFormatRules, prompt)
	if err != nil {
		return Update{}, fmt.Errorf("finalize summary: %w", err)
	}

	if len(state.SourcesGathered) > 0 {
		final = final + "\n\n### Sources:\n" + strings.Join(state.SourcesGathered, "\n")
	}
	return Update{RunningSummary: strPtr(final)}, nil
}
