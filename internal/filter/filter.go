// Package filter narrows an inheritance edge collection to the
// neighbourhood of one anchor class.
package filter

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/scott-clare1/oop-viewer/internal/model"
)

// Policy selects what "restrict to a class" means.
type Policy string

const (
	// Descendants keeps the anchor's subtree: every edge whose parent is the
	// anchor or one of its transitive subclasses, plus the other parents of
	// those subclasses. Edges to the anchor's own parents are not kept, so a
	// leaf anchor yields nothing.
	Descendants Policy = "descendants"
	// Direct keeps only edges where the anchor is the child or the parent.
	Direct Policy = "direct"
)

// ParsePolicy validates a policy name. Empty selects Descendants.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Descendants:
		return Descendants, nil
	case Direct:
		return Direct, nil
	default:
		return "", fmt.Errorf("unknown filter policy %q (want %q or %q)", s, Descendants, Direct)
	}
}

// Edges returns the edges kept by policy for anchor, preserving input order.
// An empty anchor returns edges unchanged. The input slice is not modified.
func Edges(edges []model.Edge, anchor string, policy Policy) []model.Edge {
	if anchor == "" {
		return edges
	}

	var keep func(model.Edge) bool
	switch policy {
	case Direct:
		keep = func(e model.Edge) bool {
			return e.Child == anchor || e.Parent == anchor
		}
	default:
		reach := NewHierarchy(edges).Closure(anchor)
		keep = func(e model.Edge) bool {
			if _, ok := reach[e.Parent]; ok {
				return true
			}
			_, ok := reach[e.Child]
			return ok && e.Child != anchor
		}
	}

	var kept []model.Edge
	for _, e := range edges {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Hierarchy is the parent -> child topology of an edge collection, with
// class names interned to gonum node IDs.
type Hierarchy struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	names []string
}

// NewHierarchy links every parent to its children. Edges with an empty
// parent and self inheritance add no links.
func NewHierarchy(edges []model.Edge) *Hierarchy {
	h := &Hierarchy{g: simple.NewDirectedGraph(), ids: make(map[string]int64)}
	for _, e := range edges {
		if e.Parent == "" {
			continue
		}
		from, to := h.intern(e.Parent), h.intern(e.Child)
		if from != to {
			h.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return h
}

func (h *Hierarchy) intern(name string) int64 {
	if id, ok := h.ids[name]; ok {
		return id
	}
	id := int64(len(h.names))
	h.ids[name] = id
	h.names = append(h.names, name)
	h.g.AddNode(simple.Node(id))
	return id
}

// Closure returns anchor together with every name reachable from it along
// parent -> child links, found breadth-first. Each name is visited once, so
// cycles terminate. An anchor absent from the hierarchy yields just
// {anchor}.
func (h *Hierarchy) Closure(anchor string) map[string]struct{} {
	reach := map[string]struct{}{anchor: {}}
	id, ok := h.ids[anchor]
	if !ok {
		return reach
	}

	bfs := traverse.BreadthFirst{
		Visit: func(n graph.Node) {
			reach[h.names[n.ID()]] = struct{}{}
		},
	}
	bfs.Walk(h.g, simple.Node(id), nil)
	return reach
}
