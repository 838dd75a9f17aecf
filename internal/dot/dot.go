// Package dot writes the class graph in Graphviz DOT format.
package dot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scott-clare1/oop-viewer/internal/graph"
)

// Write renders g as a digraph. Nodes are declared by handle with their
// class name as label, then edges run parent -> child with an empty label.
// Output is sorted by name so equal graphs render identically.
func Write(w io.Writer, g *graph.Graph) error {
	var b strings.Builder
	b.WriteString("digraph classes {\n")
	b.WriteString("  rankdir=BT;\n")
	b.WriteString("  node [shape=box];\n")

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		fmt.Fprintf(&b, "  n%d [label=%s];\n", n.ID, quote(n.Label))
	}

	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		fi, fj := g.Name(edges[i].From), g.Name(edges[j].From)
		if fi != fj {
			return fi < fj
		}
		return g.Name(edges[i].To) < g.Name(edges[j].To)
	})
	for _, e := range edges {
		fmt.Fprintf(&b, "  n%d -> n%d [label=%s];\n", e.From, e.To, quote(e.Label))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Encode returns the DOT text for g.
func Encode(g *graph.Graph) string {
	var b strings.Builder
	_ = Write(&b, g)
	return b.String()
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
