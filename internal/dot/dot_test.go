package dot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scott-clare1/oop-viewer/internal/graph"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	g := graph.Build([]model.Edge{{Child: "Derived", Parent: "Base"}})
	want := `digraph classes {
  rankdir=BT;
  node [shape=box];
  n0 [label="Base"];
  n1 [label="Derived"];
  n0 -> n1 [label=""];
}
`
	assert.Equal(t, want, Encode(g))
}

func TestEncodeEscapesLabels(t *testing.T) {
	t.Parallel()

	g := graph.Build([]model.Edge{{Child: `Odd"Name`, Parent: "Base"}})
	assert.Contains(t, Encode(g), `[label="Odd\"Name"]`)
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	out := Encode(graph.Build(nil))
	assert.True(t, strings.HasPrefix(out, "digraph classes {"))
	assert.NotContains(t, out, "->")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePropagatesError(t *testing.T) {
	t.Parallel()

	err := Write(brokenWriter{}, graph.Build([]model.Edge{{Child: "B", Parent: "A"}}))
	assert.EqualError(t, err, "disk full")
}
