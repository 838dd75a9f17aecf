// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// the class graph.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/scott-clare1/oop-viewer/internal/graph"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Document is what gets encoded: the graph plus the run context.
type Document struct {
	Root   string
	Anchor string
	Graph  *graph.Graph
	Ranks  []float64 // indexed by graph.NodeID; may be nil
}

// Encode converts a Document into TOON format. Classes are listed by rank
// (highest first, ties by name); edges by parent then child name.
func Encode(doc *Document) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(doc.Root)))
	if doc.Anchor != "" {
		parts = append(parts, fmt.Sprintf("anchor: %s", encodeValue(doc.Anchor)))
	}

	g := doc.Graph
	nodes := g.Nodes()
	rank := func(id graph.NodeID) float64 {
		if int(id) < len(doc.Ranks) {
			return doc.Ranks[id]
		}
		return 0
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		ri, rj := rank(nodes[i].ID), rank(nodes[j].ID)
		if ri != rj {
			return ri > rj
		}
		return nodes[i].Name < nodes[j].Name
	})

	var classRows [][]string
	for _, n := range nodes {
		classRows = append(classRows, []string{
			n.Name,
			fmt.Sprintf("%d", len(g.Parents(n.ID))),
			fmt.Sprintf("%d", len(g.Children(n.ID))),
			fmt.Sprintf("%.4f", rank(n.ID)),
		})
	}
	parts = append(parts, formatTabular("classes", []string{"name", "parents", "children", "rank"}, classRows))

	var edgeRows [][]string
	for _, e := range g.Edges() {
		edgeRows = append(edgeRows, []string{g.Name(e.From), g.Name(e.To)})
	}
	sort.Slice(edgeRows, func(i, j int) bool {
		if edgeRows[i][0] != edgeRows[j][0] {
			return edgeRows[i][0] < edgeRows[j][0]
		}
		return edgeRows[i][1] < edgeRows[j][1]
	})
	parts = append(parts, formatTabular("inherits", []string{"parent", "child"}, edgeRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
