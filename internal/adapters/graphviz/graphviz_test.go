package graphviz_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/adapters/graphviz"
	"go.trai.ch/chtl/internal/core/domain"
)

func TestRenderer_Render(t *testing.T) {
	entry := domain.NewCanonicalPath("/src/main.chtl")
	btn := domain.NewCanonicalPath("/src/ui/button.chtl")
	theme := domain.NewCanonicalPath("/src/theme.css")

	g := domain.NewDependencyGraph()
	g.AddEdge(entry, btn)
	g.AddEdge(btn, theme)
	g.AddEdge(entry, theme)

	var buf bytes.Buffer
	require.NoError(t, graphviz.NewRenderer("imports").Render(&buf, g, entry))

	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"/src/main.chtl" -> "/src/ui/button.chtl"`)
	assert.Contains(t, out, `"/src/ui/button.chtl" -> "/src/theme.css"`)
	assert.Contains(t, out, `"/src/main.chtl" -> "/src/theme.css"`)
	assert.Contains(t, out, "box")
	assert.Contains(t, out, "imports")
}

func TestRenderer_EmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graphviz.NewRenderer("").Render(&buf, domain.NewDependencyGraph()))
	assert.Contains(t, buf.String(), "digraph")
	assert.NotContains(t, buf.String(), "->")
}
