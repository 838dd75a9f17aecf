// Package pipeline wires discovery, concurrent extraction, filtering and
// graph assembly into one call.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/scott-clare1/oop-viewer/internal/config"
	"github.com/scott-clare1/oop-viewer/internal/discover"
	"github.com/scott-clare1/oop-viewer/internal/filter"
	"github.com/scott-clare1/oop-viewer/internal/graph"
	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
	"github.com/scott-clare1/oop-viewer/internal/parse"
	"github.com/scott-clare1/oop-viewer/internal/process"
	"github.com/scott-clare1/oop-viewer/internal/scan"
)

// Result is a finished run. Graph owns the merged edges; nothing else
// retains them.
type Result struct {
	Root   string // base name of the target
	Anchor string
	Policy filter.Policy
	Files  int
	Graph  *graph.Graph
	Ranks  []float64 // indexed by graph.NodeID
}

// Build reads target, extracts inheritance edges from every file in
// parallel, restricts them to anchor (when non-empty) and assembles the graph.
func Build(ctx context.Context, target, anchor string, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l, err := lang.Lookup(cfg.Language)
	if err != nil {
		return nil, err
	}
	policy, err := filter.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}

	sources, err := discover.Load(abs, discover.Options{
		Language:    l.Name,
		Exclude:     cfg.Exclude,
		Gitignore:   cfg.Gitignore,
		MaxFileSize: cfg.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}

	p := process.New(Extractor(cfg.Parser, l),
		process.WithWorkers(cfg.Workers),
		process.WithName(cfg.Parser),
	)
	edges, err := p.Run(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("processing files: %w", err)
	}

	edges = filter.Edges(edges, anchor, policy)
	model.SortEdges(edges)

	g := graph.Build(edges)
	res := &Result{
		Root:   filepath.Base(abs),
		Anchor: anchor,
		Policy: policy,
		Files:  len(sources),
		Graph:  g,
		Ranks:  graph.Rank(g),
	}

	log.WithFields(log.Fields{
		"files":   res.Files,
		"classes": g.NodeCount(),
		"edges":   g.EdgeCount(),
		"anchor":  anchor,
		"policy":  policy,
	}).Debug("graph assembled")

	return res, nil
}

// Extractor returns the per-file extractor for a parser name. Unknown names
// fall back to the heuristic scanner.
func Extractor(parser string, l *lang.Language) process.Extractor {
	if parser == config.ParserTreeSitter {
		return parse.Extractor{Lang: l}
	}
	return scan.Extractor{Lang: l}
}
