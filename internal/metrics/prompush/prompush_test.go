package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailclean/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	require.NotNil(t, m.GetCounter())
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()
	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	require.True(t, ok)
	require.NoError(t, metric.Write(m))
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	_, err := NewBackend("job", "", "")
	require.Error(t, err)

	b, err := NewBackend("", "http://pushgateway:9091", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "retailclean", b.jobName)
	assert.Equal(t, "run-1", b.runID)
}

func TestIncCounterAndObserve(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("job", "http://example.com", "")
	require.NoError(t, err)

	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "validate", "status": "success"})
	b.IncCounter(metrics.StageTotal, 2, metrics.Labels{"stage": "validate", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 4, metrics.Labels{"kind": metrics.RowsDropped})
	b.IncCounter(metrics.BatchesTotal, 2, nil)
	b.IncCounter("unknown_metric", 10, nil)
	b.ObserveHistogram(metrics.StageDuration, 0.25, metrics.Labels{"stage": "derive", "status": "success"})
	b.ObserveHistogram("other", 9, metrics.Labels{"stage": "derive", "status": "success"})

	assert.Equal(t, 3.0, readCounterValue(t, b.stageCounter.WithLabelValues("validate", "success")))
	assert.Equal(t, 4.0, readCounterValue(t, b.rowCounter.WithLabelValues(metrics.RowsDropped)))
	assert.Equal(t, 2.0, readCounterValue(t, b.batchCounter))

	n, sum := readSummaryCountSum(t, b.stageDuration, "derive", "success")
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, 0.25, sum)
}

func TestNilCollectorsAreSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "s", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": "loaded"})
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.ObserveHistogram(metrics.StageDuration, 1, nil)
}

// TestFlush verifies that Flush sends the registry to the gateway under the
// job and instance grouping keys.
func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method, path, body string
	}
	reqCh := make(chan pushed, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{r.Method, r.URL.Path, string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("nightly", server.URL, "run-42")
	require.NoError(t, err)
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": metrics.RowsLoaded})

	require.NoError(t, b.Flush())

	got := <-reqCh
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/metrics/job/nightly/instance/run-42", got.path)
	assert.NotEmpty(t, got.body)
}

func TestFlush_GatewayError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend("job", server.URL, "")
	require.NoError(t, err)
	err = b.Flush()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "prompush: push to"))
}
