// Package parse extracts inheritance edges from source files using tree-sitter.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

// Declarations parses source and returns every class that lists at least one
// superclass. Identifiers and dotted attributes become parents; keyword
// arguments such as metaclass=... are skipped.
// The parser must be created for the correct language.
func Declarations(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte) ([]model.Declaration, error) {
	if len(source) == 0 {
		return nil, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var decls []model.Declaration

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, listNode *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "name":
				nameNode = c.Node
			case "parents":
				listNode = c.Node
			}
		}
		if nameNode == nil || listNode == nil {
			continue
		}

		parents := superclasses(listNode, source)
		if len(parents) == 0 {
			continue
		}
		decls = append(decls, model.Declaration{
			Name:    nodeText(nameNode, source),
			Parents: parents,
		})
	}

	return decls, nil
}

func superclasses(list *sitter.Node, source []byte) []string {
	var parents []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "identifier", "attribute":
			parents = append(parents, nodeText(child, source))
		}
	}
	return parents
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// Extractor is the tree-sitter per-file edge extractor. Parsers are not
// safe for concurrent use, so each call creates and closes its own.
type Extractor struct {
	Lang *lang.Language
}

// Extract implements process.Extractor.
func (e Extractor) Extract(ctx context.Context, src model.Source) ([]model.Edge, error) {
	q, err := e.Lang.GetClassQuery()
	if err != nil {
		return nil, err
	}
	p := e.Lang.NewParser()
	defer p.Close()

	decls, err := Declarations(ctx, p, q, src.Content)
	if err != nil {
		return nil, err
	}

	var edges []model.Edge
	for _, d := range decls {
		for _, parent := range d.Parents {
			edges = append(edges, model.Edge{Child: d.Name, Parent: parent})
		}
	}
	return edges, nil
}
