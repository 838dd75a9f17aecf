package process

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// filesProcessed counts sources successfully run through an extractor.
	// Labels: extractor (heuristic, tree-sitter)
	filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oopviewer",
		Subsystem: "process",
		Name:      "files_total",
		Help:      "Total source files processed by extractor",
	}, []string{"extractor"})

	// edgesEmitted counts inheritance edges produced before merging.
	edgesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oopviewer",
		Subsystem: "process",
		Name:      "edges_total",
		Help:      "Total inheritance edges emitted by extractor",
	}, []string{"extractor"})

	// workerFailures counts files whose extraction failed or panicked.
	workerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oopviewer",
		Subsystem: "process",
		Name:      "failures_total",
		Help:      "Total worker failures by extractor",
	}, []string{"extractor"})

	parseSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oopviewer",
		Subsystem: "process",
		Name:      "file_seconds",
		Help:      "Per-file extraction latency",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"extractor"})
)
