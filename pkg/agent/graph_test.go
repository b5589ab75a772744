package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func recordingNode(name string, trace *[]string) NodeFunc {
	return func(ctx context.Context, state *State) (Update, error) {
		*trace = append(*trace, name)
		return Update{}, nil
	}
}

func TestExecuteFollowsEdges(t *testing.T) {
	var trace []string
	g := NewGraph(nil)
	g.AddNode("a", recordingNode("a", &trace))
	g.AddNode("b", recordingNode("b", &trace))
	g.AddNode("c", recordingNode("c", &trace))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", GraphEnd)

	if err := g.Execute(context.Background(), &State{}, 10); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.Join(trace, ","); got != "a,b,c" {
		t.Errorf("execution order = %s, want a,b,c", got)
	}
}

func TestExecuteConditionalRouting(t *testing.T) {
	var trace []string
	g := NewGraph(nil)
	g.AddNode("loop", func(ctx context.Context, state *State) (Update, error) {
		trace = append(trace, "loop")
		return Update{ResearchLoopCount: intPtr(state.ResearchLoopCount + 1)}, nil
	})
	g.AddNode("done", recordingNode("done", &trace))
	g.SetEntryPoint("loop")
	g.AddConditionalEdges("loop", func(state *State) string {
		if state.ResearchLoopCount < 3 {
			return "again"
		}
		return "stop"
	}, map[string]string{"again": "loop", "stop": "done"})
	g.AddEdge("done", GraphEnd)

	state := &State{}
	if err := g.Execute(context.Background(), state, 10); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.Join(trace, ","); got != "loop,loop,loop,done" {
		t.Errorf("execution order = %s, want loop,loop,loop,done", got)
	}
	if state.ResearchLoopCount != 3 {
		t.Errorf("ResearchLoopCount = %d, want 3", state.ResearchLoopCount)
	}
}

func TestExecuteUpdatesVisibleToRouter(t *testing.T) {
	g := NewGraph(nil)
	g.AddNode("set", func(ctx context.Context, state *State) (Update, error) {
		return Update{SearchQuery: strPtr("fresh")}, nil
	})
	g.AddNode("end", recordingNode("end", new([]string)))
	g.SetEntryPoint("set")

	var seen string
	g.AddConditionalEdges("set", func(state *State) string {
		seen = state.SearchQuery
		return "next"
	}, map[string]string{"next": "end"})
	g.AddEdge("end", GraphEnd)

	if err := g.Execute(context.Background(), &State{}, 10); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if seen != "fresh" {
		t.Errorf("router saw SearchQuery = %q, want %q (update must merge before routing)", seen, "fresh")
	}
}

func TestExecuteMissingEntryPoint(t *testing.T) {
	g := NewGraph(nil)
	g.AddNode("a", recordingNode("a", new([]string)))
	g.SetEntryPoint("missing")

	if err := g.Execute(context.Background(), &State{}, 10); err == nil {
		t.Fatal("expected error for missing entry point")
	}
}

func TestExecuteMissingDecisionMapping(t *testing.T) {
	g := NewGraph(nil)
	g.AddNode("a", recordingNode("a", new([]string)))
	g.SetEntryPoint("a")
	g.AddConditionalEdges("a", func(state *State) string {
		return "unmapped"
	}, map[string]string{"known": GraphEnd})

	err := g.Execute(context.Background(), &State{}, 10)
	if err == nil || !strings.Contains(err.Error(), "unmapped") {
		t.Fatalf("expected unmapped decision error, got %v", err)
	}
}

func TestExecuteIterationCap(t *testing.T) {
	g := NewGraph(nil)
	g.AddNode("spin", recordingNode("spin", new([]string)))
	g.SetEntryPoint("spin")
	g.AddEdge("spin", "spin")

	if err := g.Execute(context.Background(), &State{}, 5); err == nil {
		t.Fatal("expected error when iteration cap is exceeded")
	}
}

func TestExecuteNodeErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	g := NewGraph(nil)
	g.AddNode("bad", func(ctx context.Context, state *State) (Update, error) {
		return Update{}, sentinel
	})
	g.SetEntryPoint("bad")
	g.AddEdge("bad", GraphEnd)

	err := g.Execute(context.Background(), &State{}, 10)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Execute() error = %v, want wrapped sentinel", err)
	}
}
