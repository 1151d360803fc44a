// Package metrics records run statistics in a Prometheus registry. A CLI run has no
// scrape endpoint, so the registry is exported in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

const namespace = "contract_matcher"

// RunMetrics holds the collectors updated once per run.
type RunMetrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	rows          *prometheus.CounterVec
	parseFailures prometheus.Counter
	collisions    prometheus.Counter
	copied        prometheus.Counter
	copyFailures  prometheus.Counter
}

// New registers the run collectors on a fresh registry.
func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by result.",
		}, []string{"result"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rows_total",
			Help:      "Ledger rows by match outcome.",
		}, []string{"outcome"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "PDF filenames that did not parse.",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_collisions_total",
			Help:      "PDFs that resolved to an already indexed key.",
		}),
		copied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachments_copied_total",
			Help:      "Attachments copied into bundles.",
		}),
		copyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachment_copy_failures_total",
			Help:      "Attachments that failed to copy.",
		}),
	}

	m.registry.MustRegister(m.runs, m.rows, m.parseFailures, m.collisions, m.copied, m.copyFailures)
	return m
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe adds a finished run's report to the collectors.
func (m *RunMetrics) Observe(r *contract.RunReport) {
	if r.Failed() {
		m.runs.WithLabelValues("failed").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.rows.WithLabelValues(string(contract.OutcomeMatched)).Add(float64(r.MatchedCount))
	m.rows.WithLabelValues(string(contract.OutcomeUnmatched)).Add(float64(r.UnmatchedCount))
	m.rows.WithLabelValues(string(contract.OutcomeSkipped)).Add(float64(r.SkippedCount))
	m.parseFailures.Add(float64(len(r.ParseFailures)))
	m.collisions.Add(float64(len(r.Collisions)))
	m.copied.Add(float64(r.AttachmentCopyCount))
	m.copyFailures.Add(float64(len(r.CopyFailures)))
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
