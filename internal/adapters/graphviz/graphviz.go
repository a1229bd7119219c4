// Package graphviz renders dependency graphs in the Graphviz DOT language.
package graphviz

import (
	"errors"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Renderer draws a domain.DependencyGraph as a DOT digraph.
type Renderer struct {
	name string
}

// NewRenderer creates a Renderer whose output graph carries name as its label.
func NewRenderer(name string) *Renderer {
	return &Renderer{name: name}
}

// Render writes g to w. Isolated nodes are kept, entries are drawn as boxes and
// every other file as an ellipse.
func (r *Renderer) Render(w io.Writer, g *domain.DependencyGraph, entries ...domain.CanonicalPath) error {
	dg, err := r.build(g, entries)
	if err != nil {
		return err
	}

	if r.name == "" {
		err = draw.DOT(dg, w)
	} else {
		err = draw.DOT(dg, w, draw.GraphAttribute("label", r.name))
	}
	if err != nil {
		return zerr.Wrap(err, "failed to render dependency graph")
	}
	return nil
}

func (r *Renderer) build(g *domain.DependencyGraph, entries []domain.CanonicalPath) (graph.Graph[string, string], error) {
	dg := graph.New(graph.StringHash, graph.Directed())

	isEntry := make(map[domain.CanonicalPath]bool, len(entries))
	for _, e := range entries {
		isEntry[e] = true
	}

	for _, n := range g.Nodes() {
		shape := "ellipse"
		if isEntry[n] {
			shape = "box"
		}
		err := dg.AddVertex(n.String(), graph.VertexAttribute("shape", shape))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, zerr.With(zerr.Wrap(err, "failed to add vertex"), "path", n.String())
		}
	}

	for _, e := range g.Edges() {
		err := dg.AddEdge(e.Dependent.String(), e.Dependency.String())
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, zerr.With(zerr.Wrap(err, "failed to add edge"), "from", e.Dependent.String())
		}
	}
	return dg, nil
}
