// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. A carviz run is a short-lived batch job, so metrics are
// pushed once at the end instead of being scraped.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"carviz/internal/metrics"
)

// DefaultJob is the Pushgateway grouping key used when none is given.
const DefaultJob = "carviz"

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter     *prometheus.CounterVec // step, status
	stepDuration    *prometheus.SummaryVec // step, status
	rowCounter      *prometheus.CounterVec // kind
	artifactCounter prometheus.Counter
}

// NewBackend constructs a Pushgateway backend. The job label is carried by
// the Pushgateway grouping key, so collectors do not repeat it.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = DefaultJob
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Run steps executed, partitioned by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of run steps in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		rowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row-level counts per kind (processed, skipped, coerced_null).",
		}, []string{"kind"}),
		artifactCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.ArtifactTotal,
			Help: "HTML files written by the exporter.",
		}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":     b.stepCounter,
		"step summary":     b.stepDuration,
		"row counter":      b.rowCounter,
		"artifact counter": b.artifactCounter,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.ArtifactTotal:
		if b.artifactCounter == nil {
			return
		}
		b.artifactCounter.Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	if b.reg == nil {
		return nil
	}
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
