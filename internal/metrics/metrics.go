// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a carviz run.
//
// It exposes a narrow interface (Backend) focused on counters and timing
// data, and a global pluggable backend that defaults to a no-op
// implementation, so metrics are always safe to call even when no real
// backend is configured. Concrete systems live in subpackages (prompush,
// datadog) so the run itself depends only on this interface.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal     = "carviz_step_total"
	StepDuration  = "carviz_step_duration_seconds"
	RowsTotal     = "carviz_rows_total"
	ArtifactTotal = "carviz_artifacts_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() { backend = nopBackend{} }

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one run step
// (load, clean, categories, charts, export, snapshot).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given job and kind.
//
// Kinds used by the run:
//   - "processed"
//   - "skipped"       rows the loader dropped for a wrong field count
//   - "coerced_null"  cells the cleaner turned into missing values
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordArtifacts increments the number of files written by the exporter.
func RecordArtifacts(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(ArtifactTotal, float64(delta), Labels{
		"job": job,
	})
}
