// Package domain contains the core domain models of the chtl import resolution core.
package domain

import (
	"maps"
	"slices"
	"strings"
)

// Edge is a single import relationship: Dependent imports Dependency.
type Edge struct {
	Dependent  CanonicalPath
	Dependency CanonicalPath
}

type pathSet map[CanonicalPath]struct{}

// DependencyGraph is the directed import graph of one compilation run.
// Nodes are canonical paths; an edge (u, v) means u imports v.
// Iteration over nodes and neighbors is in sorted order so every query is deterministic.
type DependencyGraph struct {
	dependencies map[CanonicalPath]pathSet
	dependents   map[CanonicalPath]pathSet
}

// NewDependencyGraph creates a new empty DependencyGraph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependencies: make(map[CanonicalPath]pathSet),
		dependents:   make(map[CanonicalPath]pathSet),
	}
}

// AddEdge records that from imports to. It is idempotent.
func (g *DependencyGraph) AddEdge(from, to CanonicalPath) {
	if from.IsZero() || to.IsZero() {
		return
	}
	link(g.dependencies, from, to)
	link(g.dependents, to, from)
}

// RemoveEdge deletes the edge from -> to if present.
// A node whose adjacency set becomes empty is dropped from that mapping.
func (g *DependencyGraph) RemoveEdge(from, to CanonicalPath) {
	unlink(g.dependencies, from, to)
	unlink(g.dependents, to, from)
}

func link(m map[CanonicalPath]pathSet, k, v CanonicalPath) {
	set, ok := m[k]
	if !ok {
		set = make(pathSet)
		m[k] = set
	}
	set[v] = struct{}{}
}

func unlink(m map[CanonicalPath]pathSet, k, v CanonicalPath) {
	set, ok := m[k]
	if !ok {
		return
	}
	delete(set, v)
	if len(set) == 0 {
		delete(m, k)
	}
}

// HasEdge reports whether from imports to.
func (g *DependencyGraph) HasEdge(from, to CanonicalPath) bool {
	_, ok := g.dependencies[from][to]
	return ok
}

// HasNode reports whether p takes part in at least one edge.
func (g *DependencyGraph) HasNode(p CanonicalPath) bool {
	if _, ok := g.dependencies[p]; ok {
		return true
	}
	_, ok := g.dependents[p]
	return ok
}

// Nodes returns every node of the graph in sorted order.
func (g *DependencyGraph) Nodes() []CanonicalPath {
	seen := make(pathSet, len(g.dependencies)+len(g.dependents))
	for k := range g.dependencies {
		seen[k] = struct{}{}
	}
	for k := range g.dependents {
		seen[k] = struct{}{}
	}
	return sorted(seen)
}

// NodeCount returns the number of distinct nodes.
func (g *DependencyGraph) NodeCount() int {
	return len(g.Nodes())
}

// EdgeCount returns the number of edges.
func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, set := range g.dependencies {
		n += len(set)
	}
	return n
}

// Edges returns every edge ordered by dependent, then dependency.
func (g *DependencyGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, from := range sorted(keySet(g.dependencies)) {
		for _, to := range sorted(g.dependencies[from]) {
			edges = append(edges, Edge{Dependent: from, Dependency: to})
		}
	}
	return edges
}

// Dependencies returns the direct dependencies of p.
func (g *DependencyGraph) Dependencies(p CanonicalPath) []CanonicalPath {
	return sorted(g.dependencies[p])
}

// Dependents returns the files that directly import p.
func (g *DependencyGraph) Dependents(p CanonicalPath) []CanonicalPath {
	return sorted(g.dependents[p])
}

// AllDependencies returns every node reachable from p, without duplicates, in discovery order.
func (g *DependencyGraph) AllDependencies(p CanonicalPath) []CanonicalPath {
	visited := pathSet{p: {}}
	var result []CanonicalPath

	var collect func(u CanonicalPath)
	collect = func(u CanonicalPath) {
		for _, v := range g.Dependencies(u) {
			if _, seen := visited[v]; seen {
				continue
			}
			visited[v] = struct{}{}
			result = append(result, v)
			collect(v)
		}
	}
	collect(p)

	return result
}

// Depth returns the deepest breadth-first level reachable from p along dependency edges.
// A node without dependencies has depth 0.
func (g *DependencyGraph) Depth(p CanonicalPath) int {
	type item struct {
		node  CanonicalPath
		level int
	}

	visited := pathSet{p: {}}
	queue := []item{{node: p}}
	depth := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth = max(depth, cur.level)

		for _, v := range g.Dependencies(cur.node) {
			if _, seen := visited[v]; seen {
				continue
			}
			visited[v] = struct{}{}
			queue = append(queue, item{node: v, level: cur.level + 1})
		}
	}

	return depth
}

const (
	unvisited = iota
	visiting
	visited
)

// cycleFrom runs a depth-first search from start using the shared state map.
// When an edge closes onto a node that is still on the recursion stack it returns the
// recorded path trimmed to begin at that node, with the node appended again.
func (g *DependencyGraph) cycleFrom(start CanonicalPath, state map[CanonicalPath]int) []CanonicalPath {
	var path []CanonicalPath

	var visit func(u CanonicalPath) []CanonicalPath
	visit = func(u CanonicalPath) []CanonicalPath {
		state[u] = visiting
		path = append(path, u)

		for _, v := range g.Dependencies(u) {
			switch state[v] {
			case visiting:
				return closeCycle(path, v)
			case unvisited:
				if chain := visit(v); chain != nil {
					return chain
				}
			}
		}

		state[u] = visited
		path = path[:len(path)-1]
		return nil
	}

	if state[start] != unvisited {
		return nil
	}
	return visit(start)
}

func closeCycle(path []CanonicalPath, repeated CanonicalPath) []CanonicalPath {
	start := slices.Index(path, repeated)
	chain := make([]CanonicalPath, 0, len(path)-start+1)
	chain = append(chain, path[start:]...)
	return append(chain, repeated)
}

// HasCycleFrom reports whether a cycle is reachable from start.
func (g *DependencyGraph) HasCycleFrom(start CanonicalPath) bool {
	return g.cycleFrom(start, make(map[CanonicalPath]int)) != nil
}

// HasCycle reports whether the graph contains any cycle.
func (g *DependencyGraph) HasCycle() bool {
	state := make(map[CanonicalPath]int)
	for _, n := range g.Nodes() {
		if g.cycleFrom(n, state) != nil {
			return true
		}
	}
	return false
}

// FindCycleChain returns the first cycle reachable from start as a sequence whose
// first and last elements are identical, or nil when there is none.
func (g *DependencyGraph) FindCycleChain(start CanonicalPath) []CanonicalPath {
	return g.cycleFrom(start, make(map[CanonicalPath]int))
}

// FindAllCycles returns one chain per component that contains a cycle.
// Every node touched by a search is never used as a starting point again.
func (g *DependencyGraph) FindAllCycles() [][]CanonicalPath {
	var cycles [][]CanonicalPath
	global := make(pathSet)

	for _, n := range g.Nodes() {
		if _, seen := global[n]; seen {
			continue
		}
		state := make(map[CanonicalPath]int)
		if chain := g.cycleFrom(n, state); chain != nil {
			cycles = append(cycles, chain)
		}
		for touched := range state {
			global[touched] = struct{}{}
		}
	}

	return cycles
}

// TopologicalOrder lists every node so that for each edge (u, v), u comes before v.
// Dependents precede their dependencies; reverse the result to obtain a load order.
func (g *DependencyGraph) TopologicalOrder() []CanonicalPath {
	return g.postorderReversed(g.Nodes())
}

// Order computes TopologicalOrder over the subgraph induced by subset.
// Every subset member appears exactly once, including those without edges;
// unrelated members keep their relative order from subset.
func (g *DependencyGraph) Order(subset []CanonicalPath) []CanonicalPath {
	sub := NewDependencyGraph()
	members := make(pathSet, len(subset))
	var roots []CanonicalPath
	for _, n := range subset {
		if n.IsZero() {
			continue
		}
		if _, dup := members[n]; dup {
			continue
		}
		members[n] = struct{}{}
		roots = append(roots, n)
	}

	for _, from := range roots {
		for to := range g.dependencies[from] {
			if _, ok := members[to]; ok {
				sub.AddEdge(from, to)
			}
		}
	}

	slices.Reverse(roots)
	return sub.postorderReversed(roots)
}

func (g *DependencyGraph) postorderReversed(roots []CanonicalPath) []CanonicalPath {
	seen := make(pathSet, len(roots))
	stack := make([]CanonicalPath, 0, len(roots))

	var visit func(u CanonicalPath)
	visit = func(u CanonicalPath) {
		seen[u] = struct{}{}
		for _, v := range g.Dependencies(u) {
			if _, ok := seen[v]; !ok {
				visit(v)
			}
		}
		stack = append(stack, u)
	}

	for _, r := range roots {
		if _, ok := seen[r]; !ok {
			visit(r)
		}
	}

	slices.Reverse(stack)
	return stack
}

// Clone returns an independent copy of the graph.
func (g *DependencyGraph) Clone() *DependencyGraph {
	c := NewDependencyGraph()
	for from, set := range g.dependencies {
		c.dependencies[from] = maps.Clone(set)
	}
	for to, set := range g.dependents {
		c.dependents[to] = maps.Clone(set)
	}
	return c
}

// Clear removes every node and edge.
func (g *DependencyGraph) Clear() {
	clear(g.dependencies)
	clear(g.dependents)
}

// DOT renders the graph as a Graphviz digraph with one quoted edge per line.
func (g *DependencyGraph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph Dependencies {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box];\n\n")
	for _, e := range g.Edges() {
		b.WriteString("  \"")
		b.WriteString(e.Dependent.String())
		b.WriteString("\" -> \"")
		b.WriteString(e.Dependency.String())
		b.WriteString("\";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func keySet(m map[CanonicalPath]pathSet) pathSet {
	set := make(pathSet, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}

func sorted(set pathSet) []CanonicalPath {
	if len(set) == 0 {
		return nil
	}
	out := slices.Collect(maps.Keys(set))
	SortPaths(out)
	return out
}
