package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the scholar directory service.
// Metrics are organized by subsystem: searches, snapshot, exports, and
// engagement. All counters and histograms are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// SearchesStarted counts the total number of search requests accepted for processing.
	SearchesStarted prometheus.Counter

	// SearchesCompleted counts searches that finished with at least one result.
	SearchesCompleted prometheus.Counter

	// SearchesEmpty counts searches that completed but matched nothing.
	SearchesEmpty prometheus.Counter

	// SearchesRejected counts searches rejected before running (blank input, no filters).
	SearchesRejected prometheus.Counter

	// SearchesFailed counts searches that failed because the snapshot could not be loaded.
	SearchesFailed prometheus.Counter

	// SearchDuration observes end-to-end search duration in seconds.
	SearchDuration prometheus.Histogram

	// ResultsPerSearch observes the distribution of publication results per search.
	ResultsPerSearch prometheus.Histogram

	// FilterUsage counts searches with an active filter, labeled by filter kind.
	FilterUsage *prometheus.CounterVec

	// SnapshotLoads counts snapshot loads from the database.
	SnapshotLoads prometheus.Counter

	// SnapshotLoadFailures counts snapshot loads that failed.
	SnapshotLoadFailures prometheus.Counter

	// SnapshotLoadDuration observes snapshot load duration in seconds.
	SnapshotLoadDuration prometheus.Histogram

	// SnapshotResearchers tracks the number of researchers in the current snapshot.
	SnapshotResearchers prometheus.Gauge

	// SnapshotPublications tracks the number of publications in the current snapshot.
	SnapshotPublications prometheus.Gauge

	// ExportsTotal counts export requests, labeled by format (csv, apa, mla, bibtex).
	ExportsTotal *prometheus.CounterVec

	// ExportRows observes the number of rows per CSV export.
	ExportRows prometheus.Histogram

	// EngagementEvents counts bookmark and like actions, labeled by action.
	EngagementEvents *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of search requests started",
		}),
		SearchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of searches that returned results",
		}),
		SearchesEmpty: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_empty_total",
			Help:      "Total number of searches that matched nothing",
		}),
		SearchesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_rejected_total",
			Help:      "Total number of searches rejected before running",
		}),
		SearchesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of searches that failed to load data",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of searches in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		ResultsPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_search",
			Help:      "Number of publication results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		FilterUsage: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_usage_total",
			Help:      "Total number of searches with an active filter by kind",
		}, []string{"kind"}),

		// Snapshot
		SnapshotLoads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Total number of snapshot loads from the database",
		}),
		SnapshotLoadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_load_failures_total",
			Help:      "Total number of snapshot loads that failed",
		}),
		SnapshotLoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_load_duration_seconds",
			Help:      "Duration of snapshot loads in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotResearchers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_researchers",
			Help:      "Number of researchers in the current snapshot",
		}),
		SnapshotPublications: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_publications",
			Help:      "Number of publications in the current snapshot",
		}),

		// Exports
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of export requests by format",
		}, []string{"format"}),
		ExportRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_rows",
			Help:      "Number of rows per CSV export",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		// Engagement
		EngagementEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engagement_events_total",
			Help:      "Total number of bookmark and like actions by action",
		}, []string{"action"}),
	}
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted() {
	m.SearchesStarted.Inc()
}

// RecordSearchCompleted records a search that returned results.
func (m *Metrics) RecordSearchCompleted(resultCount int, durationSeconds float64) {
	m.SearchesCompleted.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.ResultsPerSearch.Observe(float64(resultCount))
}

// RecordSearchEmpty records a search that matched nothing.
func (m *Metrics) RecordSearchEmpty(durationSeconds float64) {
	m.SearchesEmpty.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.ResultsPerSearch.Observe(0)
}

// RecordSearchRejected records a search rejected before running.
func (m *Metrics) RecordSearchRejected() {
	m.SearchesRejected.Inc()
}

// RecordSearchFailed records a search that failed to load data.
func (m *Metrics) RecordSearchFailed() {
	m.SearchesFailed.Inc()
}

// RecordFilterUsage records an active filter on a search.
func (m *Metrics) RecordFilterUsage(kind string) {
	m.FilterUsage.WithLabelValues(kind).Inc()
}

// RecordSnapshotLoad records a successful snapshot load and its sizes.
func (m *Metrics) RecordSnapshotLoad(researchers, publications int, durationSeconds float64) {
	m.SnapshotLoads.Inc()
	m.SnapshotLoadDuration.Observe(durationSeconds)
	m.SnapshotResearchers.Set(float64(researchers))
	m.SnapshotPublications.Set(float64(publications))
}

// RecordSnapshotLoadFailure records a failed snapshot load.
func (m *Metrics) RecordSnapshotLoadFailure() {
	m.SnapshotLoadFailures.Inc()
}

// RecordExport records an export request.
func (m *Metrics) RecordExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// RecordCSVExport records a CSV export and its row count.
func (m *Metrics) RecordCSVExport(rows int) {
	m.ExportsTotal.WithLabelValues("csv").Inc()
	m.ExportRows.Observe(float64(rows))
}

// RecordEngagement records a bookmark or like action.
func (m *Metrics) RecordEngagement(action string) {
	m.EngagementEvents.WithLabelValues(action).Inc()
}
