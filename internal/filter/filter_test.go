package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scott-clare1/oop-viewer/internal/model"
)

// edge builds a parent -> child edge.
func edge(parent, child string) model.Edge {
	return model.Edge{Child: child, Parent: parent}
}

var sample = []model.Edge{
	edge("A", "B"),
	edge("B", "C"),
	edge("X", "Y"),
}

func TestDescendantsFromRoot(t *testing.T) {
	t.Parallel()

	got := Edges(sample, "A", Descendants)
	assert.ElementsMatch(t, []model.Edge{edge("A", "B"), edge("B", "C")}, got)
}

func TestDescendantsFromLeaf(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Edges(sample, "C", Descendants))
}

func TestDescendantsUnknownAnchor(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Edges(sample, "Nope", Descendants))
}

func TestDescendantsIncludesOtherParentsOfSubclasses(t *testing.T) {
	t.Parallel()

	edges := []model.Edge{
		edge("Root", "A"),
		edge("A", "B"),
		edge("Mixin", "B"),
		edge("B", "C"),
		edge("Other", "Z"),
	}
	got := Edges(edges, "A", Descendants)
	assert.ElementsMatch(t, []model.Edge{
		edge("A", "B"),
		edge("Mixin", "B"),
		edge("B", "C"),
	}, got)
}

func TestDescendantsHandlesCycles(t *testing.T) {
	t.Parallel()

	edges := []model.Edge{edge("A", "B"), edge("B", "A"), edge("B", "C")}
	var got []model.Edge
	require.NotPanics(t, func() { got = Edges(edges, "A", Descendants) })
	assert.ElementsMatch(t, edges, got)
}

func TestDirect(t *testing.T) {
	t.Parallel()

	got := Edges(sample, "B", Direct)
	assert.ElementsMatch(t, []model.Edge{edge("A", "B"), edge("B", "C")}, got)

	got = Edges(sample, "A", Direct)
	assert.Equal(t, []model.Edge{edge("A", "B")}, got)

	assert.Empty(t, Edges(sample, "Nope", Direct))
}

func TestNoAnchorKeepsEverything(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sample, Edges(sample, "", Descendants))
	assert.Equal(t, sample, Edges(sample, "", Direct))
}

func TestEdgesDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := append([]model.Edge(nil), sample...)
	_ = Edges(in, "A", Descendants)
	assert.Equal(t, sample, in)
}

func TestClosure(t *testing.T) {
	t.Parallel()

	h := NewHierarchy(sample)
	assert.Equal(t, map[string]struct{}{"A": {}, "B": {}, "C": {}}, h.Closure("A"))
	assert.Equal(t, map[string]struct{}{"C": {}}, h.Closure("C"))
	assert.Equal(t, map[string]struct{}{"Q": {}}, h.Closure("Q"))
}

func TestClosureDiamond(t *testing.T) {
	t.Parallel()

	h := NewHierarchy([]model.Edge{
		edge("A", "B"), edge("A", "C"), edge("B", "D"), edge("C", "D"),
	})
	assert.Len(t, h.Closure("A"), 4)
}

func TestClosureSkipsSelfInheritanceAndEmptyParents(t *testing.T) {
	t.Parallel()

	h := NewHierarchy([]model.Edge{
		edge("A", "A"), edge("A", "B"), edge("", "Orphan"),
	})
	var closure map[string]struct{}
	require.NotPanics(t, func() { closure = h.Closure("A") })
	assert.Equal(t, map[string]struct{}{"A": {}, "B": {}}, closure)
	assert.Equal(t, map[string]struct{}{"Orphan": {}}, h.Closure("Orphan"))
}

func TestDescendantsKeepsSelfInheritanceInSubtree(t *testing.T) {
	t.Parallel()

	edges := []model.Edge{edge("A", "B"), edge("B", "B")}
	assert.ElementsMatch(t, edges, Edges(edges, "A", Descendants))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Descendants, p)

	p, err = ParsePolicy("direct")
	require.NoError(t, err)
	assert.Equal(t, Direct, p)

	_, err = ParsePolicy("ancestors")
	assert.Error(t, err)
}
