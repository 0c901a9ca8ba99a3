package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the roster pipeline.
type Metrics struct {
	UploadsProcessed  *prometheus.CounterVec
	ExtractionSeconds prometheus.Histogram
	EntriesSaved      prometheus.Counter
	EntriesRejected   prometheus.Counter
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates and registers the pipeline metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		UploadsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_processed_total",
			Help:      "The total number of roster uploads by terminal status",
		}, []string{"status"}),
		ExtractionSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time taken by the vision model extraction call",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 120},
		}),
		EntriesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logbook_entries_saved_total",
			Help:      "The total number of logbook entries saved by the reconciler",
		}),
		EntriesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_entries_rejected_total",
			Help:      "The total number of roster entries dropped by validation or reconciliation",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
