package scan

import (
	"context"
	"strings"

	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

const parentSeparator = ", "

// ParseHeader splits a flattened header into the declared name and its
// parents. ok is false for root declarations (no "(") and for declarations
// whose parent list is empty.
//
// Only the first "(" and the first ")" after it are considered; nested
// parentheses truncate the parent list. Without a ")" the list runs to the
// end of the header.
func ParseHeader(header string) (decl model.Declaration, ok bool) {
	open := strings.IndexByte(header, '(')
	if open < 0 {
		return model.Declaration{}, false
	}

	list := header[open+1:]
	if end := strings.IndexByte(list, ')'); end >= 0 {
		list = list[:end]
	}

	var parents []string
	for _, p := range strings.Split(list, parentSeparator) {
		if p != "" {
			parents = append(parents, p)
		}
	}
	if len(parents) == 0 {
		return model.Declaration{}, false
	}

	return model.Declaration{Name: header[:open], Parents: parents}, true
}

// Declarations parses each header, dropping root declarations.
func Declarations(headers []model.Header) []model.Declaration {
	var decls []model.Declaration
	for _, h := range headers {
		if d, ok := ParseHeader(h.Flatten()); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Edges emits one (child, parent) edge per parent, in declaration order.
func Edges(decls []model.Declaration) []model.Edge {
	var edges []model.Edge
	for _, d := range decls {
		for _, p := range d.Parents {
			edges = append(edges, model.Edge{Child: d.Name, Parent: p})
		}
	}
	return edges
}

// File runs the whole heuristic pipeline over one file's text.
func File(text string, l *lang.Language) []model.Edge {
	return Edges(Declarations(Headers(Tokenize(text), l)))
}

// Extractor is the heuristic per-file edge extractor. It never fails.
type Extractor struct {
	Lang *lang.Language
}

// Extract implements process.Extractor.
func (e Extractor) Extract(_ context.Context, src model.Source) ([]model.Edge, error) {
	return File(string(src.Content), e.Lang), nil
}
