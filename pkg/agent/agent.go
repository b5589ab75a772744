// Package agent implements the research workflow engine: a cyclic,
// conditionally-terminating node graph that combines image analysis,
// iterative web research, vector retrieval and final synthesis into one
// answer. External systems (models, search, retrieval) are reached only
// through the ports declared in ports.go.
package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// Config holds the knobs read once at construction.
type Config struct {
	MaxWebResearchLoops int
	TopK                int
}

const (
	DefaultMaxWebResearchLoops = 3
	DefaultTopK                = 5
)

func (c *Config) applyDefaults() {
	if c.MaxWebResearchLoops <= 0 {
		c.MaxWebResearchLoops = DefaultMaxWebResearchLoops
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
}

// Agent drives the workflow graph. One Agent serves many concurrent runs;
// all per-run data lives in the State built inside Process.
type Agent struct {
	cfg    Config
	graph  *Graph
	logger *slog.Logger
}

func New(cfg Config, completer Completer, images ImageAnalyzer, search SearchProvider, retriever Retriever, logger *slog.Logger) *Agent {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	nodes := NewNodes(cfg, completer, images, search, retriever, logger)

	builder := NewGraph(logger)
	builder.AddNode("process_image", nodes.ProcessImage)
	builder.AddNode("generate_query", nodes.GenerateQuery)
	builder.AddNode("web_research", nodes.WebResearch)
	builder.AddNode("summarize_sources", nodes.SummarizeSources)
	builder.AddNode("reflect_on_summary", nodes.ReflectOnSummary)
	builder.AddNode("search_faiss", nodes.SearchFAISS)
	builder.AddNode("finalize_summary", nodes.FinalizeSummary)

	builder.SetEntryPoint("process_image")
	builder.AddEdge("process_image", "generate_query")
	builder.AddEdge("generate_query", "web_research")
	builder.AddEdge("web_research", "summarize_sources")
	builder.AddEdge("summarize_sources", "reflect_on_summary")
	builder.AddConditionalEdges("reflect_on_summary", nodes.RouteResearch, map[string]string{
		decisionContinue: "web_research",
		decisionFinalize: "search_faiss",
	})
	builder.AddEdge("search_faiss", "finalize_summary")
	builder.AddEdge("finalize_summary", GraphEnd)

	return &Agent{cfg: cfg, graph: builder, logger: logger}
}

// Process runs the full workflow for one request and returns the output
// projection. The state is discarded afterwards.
func (a *Agent) Process(ctx context.Context, in Input) (Output, error) {
	state := newState(in)

	a.logger.Info("Starting research run",
		"topic", in.ResearchTopic,
		"web_research", in.EnableWebResearch,
		"chat_with_picture", in.EnableChatWithPicture,
		"pdf", in.PDFFilename)

	// The cycle contributes 4 nodes per loop; the straight-line path 5 more.
	maxIterations := 4*(a.cfg.MaxWebResearchLoops+1) + 8
	if err := a.graph.Execute(ctx, state, maxIterations); err != nil {
		return Output{}, fmt.Errorf("research run: %w", err)
	}

	a.logger.Info("Research run complete",
		"loops", state.ResearchLoopCount,
		"sources", len(state.SourcesGathered),
		"passages", len(state.FAISSResults))

	return Output{RunningSummary: state.RunningSummary}, nil
}
