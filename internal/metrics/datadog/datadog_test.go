package datadog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailclean/internal/metrics"
)

type sent struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	sent   []sent
	closed int
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error { f.closed++; return nil }

func TestBackendForwardsWithTags(t *testing.T) {
	fc := &fakeClient{}
	b := &Backend{client: fc}

	metrics.SetBackend(b)
	t.Cleanup(metrics.Reset)

	metrics.RecordStep("nightly", "segment", nil, 0)
	metrics.RecordRow("nightly", metrics.RowsWritten, 7)
	require.NoError(t, metrics.Flush())

	require.Len(t, fc.sent, 3)
	assert.Equal(t, sent{"count", metrics.StageTotal, 1, []string{"job:nightly", "stage:segment", "status:success"}}, fc.sent[0])
	assert.Equal(t, "histogram", fc.sent[1].kind)
	assert.Equal(t, sent{"count", metrics.RowsTotal, 7, []string{"job:nightly", "kind:written"}}, fc.sent[2])
	assert.Equal(t, 1, fc.closed)
}

func TestNilClientIsSafe(t *testing.T) {
	b := &Backend{}
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	assert.NoError(t, b.Flush())
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "retail.", Tags: []string{"env:test"}})
	require.NoError(t, err)
	require.NotNil(t, b.client)
	assert.NoError(t, b.Flush())
}

func TestLabelsToTags(t *testing.T) {
	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t, []string{"a:1", "b:2"}, labelsToTags(metrics.Labels{"b": "2", "a": "1"}))
}
