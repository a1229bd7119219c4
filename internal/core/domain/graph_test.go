package domain_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

func p(s string) domain.CanonicalPath {
	return domain.NewCanonicalPath(s)
}

func paths(ss ...string) []domain.CanonicalPath {
	out := make([]domain.CanonicalPath, len(ss))
	for i, s := range ss {
		out[i] = p(s)
	}
	return out
}

func TestDependencyGraph_AddEdge_Idempotent(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("/a"), p("/b"))
	g.AddEdge(p("/a"), p("/b"))

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.HasEdge(p("/a"), p("/b")))
	assert.False(t, g.HasEdge(p("/b"), p("/a")))
	assert.Equal(t, paths("/b"), g.Dependencies(p("/a")))
	assert.Equal(t, paths("/a"), g.Dependents(p("/b")))
}

func TestDependencyGraph_AddEdge_IgnoresZeroPath(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(domain.CanonicalPath{}, p("/b"))
	g.AddEdge(p("/a"), domain.CanonicalPath{})

	assert.Zero(t, g.NodeCount())
}

func TestDependencyGraph_RemoveEdge_DropsEmptyNodes(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("/a"), p("/b"))
	g.AddEdge(p("/c"), p("/b"))

	g.RemoveEdge(p("/a"), p("/b"))
	g.RemoveEdge(p("/a"), p("/b"))

	assert.False(t, g.HasNode(p("/a")))
	assert.True(t, g.HasNode(p("/b")))
	assert.True(t, g.HasNode(p("/c")))
	assert.Equal(t, paths("/b", "/c"), g.Nodes())

	g.RemoveEdge(p("/c"), p("/b"))
	assert.Zero(t, g.NodeCount())
	assert.Empty(t, g.Dependents(p("/b")))
}

func TestDependencyGraph_CycleDetection(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("A"), p("B"))
	g.AddEdge(p("B"), p("C"))

	assert.False(t, g.HasCycle())
	assert.False(t, g.HasCycleFrom(p("A")))
	assert.Nil(t, g.FindCycleChain(p("A")))

	g.AddEdge(p("C"), p("A"))

	assert.True(t, g.HasCycle())
	assert.True(t, g.HasCycleFrom(p("A")))

	chain := g.FindCycleChain(p("A"))
	require.Len(t, chain, 4)
	assert.Equal(t, p("A"), chain[0])
	assert.Equal(t, p("A"), chain[len(chain)-1])
	assert.Contains(t, chain[1:3], p("B"))
	assert.Contains(t, chain[1:3], p("C"))
}

func TestDependencyGraph_FindCycleChain_TrimsToRepeatedNode(t *testing.T) {
	// entry -> a -> b -> a: the chain starts at the repeated node, not at entry.
	g := domain.NewDependencyGraph()
	g.AddEdge(p("entry"), p("a"))
	g.AddEdge(p("a"), p("b"))
	g.AddEdge(p("b"), p("a"))

	assert.Equal(t, paths("a", "b", "a"), g.FindCycleChain(p("entry")))
}

func TestDependencyGraph_SelfLoop(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("a"))

	assert.True(t, g.HasCycleFrom(p("a")))
	assert.Equal(t, paths("a", "a"), g.FindCycleChain(p("a")))
}

func TestDependencyGraph_FindAllCycles(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("b"))
	g.AddEdge(p("b"), p("a"))
	g.AddEdge(p("x"), p("y"))
	g.AddEdge(p("y"), p("x"))
	g.AddEdge(p("m"), p("n"))

	cycles := g.FindAllCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, paths("a", "b", "a"), cycles[0])
	assert.Equal(t, paths("x", "y", "x"), cycles[1])
}

func TestDependencyGraph_TopologicalOrder_DependentsFirst(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("main"), p("layout"))
	g.AddEdge(p("main"), p("style"))
	g.AddEdge(p("layout"), p("style"))
	g.AddEdge(p("layout"), p("header"))

	order := g.TopologicalOrder()
	require.Len(t, order, 4)

	for _, e := range g.Edges() {
		u := slices.Index(order, e.Dependent)
		v := slices.Index(order, e.Dependency)
		assert.Less(t, u, v, "%s should precede %s", e.Dependent, e.Dependency)
	}
}

func TestDependencyGraph_Order_InducedSubgraph(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("b"))
	g.AddEdge(p("b"), p("c"))

	// a -> c is only reachable through b, so the induced subgraph on {c, a} has no edge.
	assert.Equal(t, paths("c", "a"), g.Order(paths("c", "a")))
	assert.Equal(t, paths("a", "b"), g.Order(paths("b", "a")))
	assert.Equal(t, paths("x", "a", "b", "y"), g.Order(paths("x", "b", "a", "y", "x")))
}

func TestDependencyGraph_AllDependencies_NoDuplicates(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("b"))
	g.AddEdge(p("a"), p("c"))
	g.AddEdge(p("b"), p("c"))
	g.AddEdge(p("c"), p("d"))

	deps := g.AllDependencies(p("a"))
	assert.ElementsMatch(t, paths("b", "c", "d"), deps)
	assert.Len(t, deps, 3)
}

func TestDependencyGraph_Depth(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("b"))
	g.AddEdge(p("b"), p("c"))

	assert.Equal(t, 2, g.Depth(p("a")))
	assert.Equal(t, 1, g.Depth(p("b")))
	assert.Equal(t, 0, g.Depth(p("c")))
	assert.Equal(t, 0, g.Depth(p("unknown")))

	// Levels are breadth-first, so a shortcut edge shortens the depth.
	g.AddEdge(p("a"), p("c"))
	assert.Equal(t, 1, g.Depth(p("a")))
}

func TestDependencyGraph_Clone_IsIndependent(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("a"), p("b"))

	c := g.Clone()
	c.AddEdge(p("b"), p("a"))
	c.RemoveEdge(p("a"), p("b"))

	assert.True(t, g.HasEdge(p("a"), p("b")))
	assert.False(t, g.HasEdge(p("b"), p("a")))
	assert.False(t, g.HasCycle())
}

func TestDependencyGraph_DOT(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddEdge(p("/src/main.chtl"), p("/src/style.css"))

	want := "digraph Dependencies {\n" +
		"  rankdir=TB;\n" +
		"  node [shape=box];\n\n" +
		"  \"/src/main.chtl\" -> \"/src/style.css\";\n" +
		"}\n"
	assert.Equal(t, want, g.DOT())
}

func TestCycleError_Metadata(t *testing.T) {
	err := domain.CycleError(paths("a", "b", "a"))

	if !errors.Is(err, domain.ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if cycle, ok := zErr.Metadata()["cycle"].(string); !ok || cycle != "a -> b -> a" {
		t.Errorf("expected metadata cycle=a -> b -> a, got %v", zErr.Metadata()["cycle"])
	}
}
