// Package process runs a per-file edge extractor over many sources in
// parallel and merges the results.
package process

import (
	"context"
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/scott-clare1/oop-viewer/internal/model"
)

var tracer = otel.Tracer("oop-viewer.process")

// Extractor turns one source file into its local edge list.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, src model.Source) ([]model.Edge, error)
}

// Options configures a Processor.
type Options struct {
	// Workers bounds the number of files parsed at once.
	// Default: runtime.GOMAXPROCS(0)
	Workers int

	// Name labels metrics and spans (e.g. "heuristic", "tree-sitter").
	Name string
}

// Option is a functional option for configuring Processor.
type Option func(*Options)

// WithWorkers sets the number of parallel workers. n <= 0 keeps the default.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Workers = n
		}
	}
}

// WithName sets the label used in metrics and spans.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// Processor fans sources out to a bounded pool of workers and fans their
// edge lists back in through a single collector.
//
// Processor is stateless between runs and safe for concurrent use.
type Processor struct {
	extractor Extractor
	options   Options
}

// New creates a Processor for the given extractor.
func New(ex Extractor, opts ...Option) *Processor {
	options := Options{
		Workers: runtime.GOMAXPROCS(0),
		Name:    "default",
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Processor{extractor: ex, options: options}
}

// Workers returns the configured pool size.
func (p *Processor) Workers() int {
	return p.options.Workers
}

// Run extracts edges from every source and returns the merged collection.
//
// Edge order across files depends on worker completion order and is not
// stable between runs; the set of edges is. If any worker fails (returns an
// error or panics) Run returns that error and no edges.
func (p *Processor) Run(ctx context.Context, sources []model.Source) ([]model.Edge, error) {
	ctx, span := tracer.Start(ctx, "Processor.Run",
		trace.WithAttributes(
			attribute.Int("files", len(sources)),
			attribute.Int("workers", p.options.Workers),
			attribute.String("extractor", p.options.Name),
		))
	defer span.End()

	out := make(chan []model.Edge)
	merged := make(chan []model.Edge, 1)
	go func() {
		merged <- Collect(out)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.Workers)

	for _, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			edges, err := p.extract(gctx, src)
			if err != nil {
				workerFailures.WithLabelValues(p.options.Name).Inc()
				return err
			}
			select {
			case out <- edges:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err := g.Wait()
	close(out)
	edges := <-merged

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("edges", len(edges)))
	log.WithFields(log.Fields{
		"files":     len(sources),
		"edges":     len(edges),
		"workers":   p.options.Workers,
		"extractor": p.options.Name,
	}).Debug("processed sources")

	return edges, nil
}

// extract runs the extractor on one source, turning a panic into an error.
func (p *Processor) extract(ctx context.Context, src model.Source) (edges []model.Edge, err error) {
	_, span := tracer.Start(ctx, "Processor.extract",
		trace.WithAttributes(attribute.String("file", src.Path)))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			edges = nil
			err = fmt.Errorf("%s: extractor panic: %v", src.Path, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	edges, err = p.extractor.Extract(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	parseSeconds.WithLabelValues(p.options.Name).Observe(time.Since(start).Seconds())
	filesProcessed.WithLabelValues(p.options.Name).Inc()
	edgesEmitted.WithLabelValues(p.options.Name).Add(float64(len(edges)))

	log.WithFields(log.Fields{"file": src.Path, "edges": len(edges)}).Debug("extracted edges")
	return edges, nil
}

// Collect drains in and concatenates every received edge list. It returns
// once in is closed and is the only place partial results are combined.
func Collect(in <-chan []model.Edge) []model.Edge {
	var all []model.Edge
	for edges := range in {
		all = append(all, edges...)
	}
	return all
}
