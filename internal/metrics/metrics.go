// Package metrics records operational metrics for cleaning runs behind a
// narrow, pluggable Backend. The default backend is a no-op, so callers can
// always record without checking whether metrics are configured. Concrete
// systems live in subpackages (prompush, datadog).
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StageTotal    = "retailclean_stage_total"
	StageDuration = "retailclean_stage_duration_seconds"
	RowsTotal     = "retailclean_rows_total"
	BatchesTotal  = "retailclean_batches_total"
)

// Row kinds passed to RecordRow.
const (
	RowsLoaded   = "loaded"
	RowsSkipped  = "skipped"
	RowsDropped  = "dropped"
	RowsWritten  = "written"
	RowsInserted = "inserted"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Reset restores the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline stage and records its
// duration, labeled by outcome.
func RecordStep(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}

	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind (see the Rows* constants).
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches counts sink batches flushed for job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
