package bench

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-run Prometheus metrics in a private registry so that
// repeated runs in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry
	elapsed  *prometheus.HistogramVec
	last     *prometheus.GaugeVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates and registers the harness metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		elapsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clbench_executor_elapsed_seconds",
			Help:    "Timed interval of each executor run.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"executor", "variant"}),
		last: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clbench_executor_last_elapsed_seconds",
			Help: "Timed interval of the most recent executor run.",
		}, []string{"executor", "variant"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clbench_executor_runs_total",
			Help: "Executor runs by verification outcome.",
		}, []string{"executor", "variant", "outcome"}),
	}
	m.registry.MustRegister(m.elapsed, m.last, m.runs)
	return m
}

// Observe records one execution record.
func (m *Metrics) Observe(rec Record) {
	outcome := "pass"
	if !rec.Passed {
		outcome = "fail"
	}
	m.runs.WithLabelValues(rec.Executor, rec.Variant, outcome).Inc()
	if rec.Passed {
		m.elapsed.WithLabelValues(rec.Executor, rec.Variant).Observe(rec.Elapsed.Seconds())
		m.last.WithLabelValues(rec.Executor, rec.Variant).Set(rec.Elapsed.Seconds())
	}
}

// Registry exposes the underlying registry, for tests and exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
