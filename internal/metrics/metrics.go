package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle activity counters, registered on the default registry and exposed
// through the server's /metrics endpoint.
var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "cycles_total",
		Help:      "Total number of completed aggregation cycles",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "cycle_duration_seconds",
		Help:      "Histogram of aggregation cycle wall-clock duration",
		Buckets:   prometheus.DefBuckets,
	})

	ItemsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "items_fetched_total",
		Help:      "Total number of feed items fetched and stored",
	})

	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "fetch_failures_total",
		Help:      "Total number of per-item fetch or store failures",
	})

	ItemsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "items_analyzed_total",
		Help:      "Total number of items successfully analyzed",
	})

	AnalysisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "analysis_failures_total",
		Help:      "Total number of failed analysis attempts",
	})

	CategoryCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hnradar",
		Subsystem: "aggregator",
		Name:      "category_corrections_total",
		Help:      "Total number of model categories forced to the fallback",
	})
)
