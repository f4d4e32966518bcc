package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	// Use unique namespace to avoid conflicts with other tests
	m := NewMetrics("test_scholardir_new")

	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesEmpty)
	assert.NotNil(t, m.SearchesRejected)
	assert.NotNil(t, m.SearchesFailed)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.ResultsPerSearch)
	assert.NotNil(t, m.FilterUsage)
	assert.NotNil(t, m.SnapshotLoads)
	assert.NotNil(t, m.SnapshotLoadFailures)
	assert.NotNil(t, m.SnapshotResearchers)
	assert.NotNil(t, m.SnapshotPublications)
	assert.NotNil(t, m.ExportsTotal)
	assert.NotNil(t, m.ExportRows)
	assert.NotNil(t, m.EngagementEvents)
}

func TestRecordSearchStarted(t *testing.T) {
	m := NewMetrics("test_search_started")

	initial := testutil.ToFloat64(m.SearchesStarted)
	m.RecordSearchStarted()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesStarted))
}

func TestRecordSearchCompleted(t *testing.T) {
	m := NewMetrics("test_search_completed")

	initial := testutil.ToFloat64(m.SearchesCompleted)
	m.RecordSearchCompleted(42, 0.05)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesCompleted))

	// Check histogram
	histCount, err := getHistogramSampleCount(m.SearchDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordSearchEmpty(t *testing.T) {
	m := NewMetrics("test_search_empty")

	initial := testutil.ToFloat64(m.SearchesEmpty)
	m.RecordSearchEmpty(0.01)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesEmpty))
}

func TestRecordSearchRejected(t *testing.T) {
	m := NewMetrics("test_search_rejected")

	initial := testutil.ToFloat64(m.SearchesRejected)
	m.RecordSearchRejected()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesRejected))
}

func TestRecordSearchFailed(t *testing.T) {
	m := NewMetrics("test_search_failed")

	initial := testutil.ToFloat64(m.SearchesFailed)
	m.RecordSearchFailed()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesFailed))
}

func TestRecordFilterUsage(t *testing.T) {
	m := NewMetrics("test_filter_usage")

	m.RecordFilterUsage("year")
	m.RecordFilterUsage("year")
	m.RecordFilterUsage("journal")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.FilterUsage.WithLabelValues("year")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FilterUsage.WithLabelValues("journal")))
}

func TestRecordSnapshotLoad(t *testing.T) {
	m := NewMetrics("test_snapshot_load")

	initial := testutil.ToFloat64(m.SnapshotLoads)
	m.RecordSnapshotLoad(120, 4500, 1.2)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SnapshotLoads))
	assert.Equal(t, float64(120), testutil.ToFloat64(m.SnapshotResearchers))
	assert.Equal(t, float64(4500), testutil.ToFloat64(m.SnapshotPublications))
}

func TestRecordSnapshotLoadFailure(t *testing.T) {
	m := NewMetrics("test_snapshot_load_failure")

	initial := testutil.ToFloat64(m.SnapshotLoadFailures)
	m.RecordSnapshotLoadFailure()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SnapshotLoadFailures))
}

func TestRecordExport(t *testing.T) {
	m := NewMetrics("test_export")

	m.RecordExport("bibtex")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportsTotal.WithLabelValues("bibtex")))
}

func TestRecordCSVExport(t *testing.T) {
	m := NewMetrics("test_csv_export")

	m.RecordCSVExport(37)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportsTotal.WithLabelValues("csv")))

	histCount, err := getHistogramSampleCount(m.ExportRows)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordEngagement(t *testing.T) {
	m := NewMetrics("test_engagement")

	m.RecordEngagement("bookmark")
	m.RecordEngagement("like")
	m.RecordEngagement("like")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EngagementEvents.WithLabelValues("bookmark")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EngagementEvents.WithLabelValues("like")))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
