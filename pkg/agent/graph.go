package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// GraphEnd is the sentinel node name that terminates execution.
const GraphEnd = "__END__"

// NodeFunc runs one unit of work and returns a partial state update.
type NodeFunc func(ctx context.Context, state *State) (Update, error)

// RouterFunc picks the outgoing decision for a conditional edge. It must be a
// pure function of state.
type RouterFunc func(state *State) string

type edgeConfig struct {
	conditional bool
	toNode      string
	routerFunc  RouterFunc
	targets     map[string]string
}

// Graph is a directed node graph driven synchronously to completion. Nodes
// emit updates which the executor merges into the shared run state before
// following the outgoing edge.
type Graph struct {
	nodes      map[string]NodeFunc
	edges      map[string]edgeConfig
	entryPoint string
	logger     *slog.Logger
}

func NewGraph(logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		nodes:  make(map[string]NodeFunc),
		edges:  make(map[string]edgeConfig),
		logger: logger,
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) {
	g.nodes[name] = fn
}

func (g *Graph) SetEntryPoint(name string) {
	g.entryPoint = name
}

func (g *Graph) AddEdge(fromNode, toNode string) {
	g.edges[fromNode] = edgeConfig{toNode: toNode}
}

// AddConditionalEdges attaches a router to fromNode. The router's decision is
// looked up in targets to find the next node.
func (g *Graph) AddConditionalEdges(fromNode string, routerFunc RouterFunc, targets map[string]string) {
	g.edges[fromNode] = edgeConfig{
		conditional: true,
		routerFunc:  routerFunc,
		targets:     targets,
	}
}

// Execute drives the graph from the entry point until GraphEnd. maxIterations
// is a structural safety net; the routing policy itself bounds the only cycle
// in the graph.
func (g *Graph) Execute(ctx context.Context, state *State, maxIterations int) error {
	current := g.entryPoint
	if _, ok := g.nodes[current]; !ok {
		return fmt.Errorf("entry point node %q not found", current)
	}

	for i := 0; i < maxIterations; i++ {
		if current == GraphEnd {
			return nil
		}

		fn, ok := g.nodes[current]
		if !ok {
			return fmt.Errorf("node %q not found in graph definition", current)
		}

		g.logger.Debug("Executing node", "node", current)
		update, err := fn(ctx, state)
		if err != nil {
			return fmt.Errorf("node %q: %w", current, err)
		}
		state.Apply(update)

		edge, ok := g.edges[current]
		if !ok {
			current = GraphEnd
			continue
		}

		if edge.conditional {
			decision := edge.routerFunc(state)
			next, ok := edge.targets[decision]
			if !ok {
				return fmt.Errorf("conditional edge from %q has no mapping for decision %q", current, decision)
			}
			g.logger.Debug("Router decision", "node", current, "decision", decision)
			current = next
		} else {
			current = edge.toNode
		}
	}

	if current != GraphEnd {
		return fmt.Errorf("graph did not reach %s within %d iterations", GraphEnd, maxIterations)
	}
	return nil
}
