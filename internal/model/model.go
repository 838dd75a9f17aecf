// Package model defines core data structures for oop-viewer.
package model

import (
	"sort"
	"strings"
)

// Source is one raw source file read into memory.
type Source struct {
	Path    string // Path as discovered; used in diagnostics only
	Content []byte
}

// Header is the ordered run of tokens forming one recognized class
// declaration. The last token ends with the header terminator.
type Header []string

// Flatten rejoins the header tokens with single spaces.
func (h Header) Flatten() string {
	return strings.Join(h, " ")
}

// Declaration is a class name with its ordered parent list.
type Declaration struct {
	Name    string
	Parents []string
}

// Edge is one inheritance relationship: Child derives from Parent.
type Edge struct {
	Child  string
	Parent string
}

// SortEdges orders edges by parent, then child, in place.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Parent != edges[j].Parent {
			return edges[i].Parent < edges[j].Parent
		}
		return edges[i].Child < edges[j].Child
	})
}
