// Package observability counts what a consolidation run did and exports the
// counters in Prometheus text format for the node_exporter textfile
// collector.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcomes recorded by RecordFile.
const (
	OutcomeParsed       = "parsed"
	OutcomeDuplicate    = "duplicate"
	OutcomeUnrecognized = "unrecognized"
	OutcomeFailed       = "failed"
)

// Metrics holds the counters of one run on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	readings prometheus.Counter
	merges   prometheus.Counter
	outputs  prometheus.Counter
	lastRun  prometheus.Gauge
	duration prometheus.Gauge
}

// NewMetrics returns a fresh set of run counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "files_total",
			Help:      "Number of export files seen, by outcome.",
		}, []string{"outcome"}),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "readings_ingested_total",
			Help:      "Number of distinct readings parsed from export files.",
		}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "records_merged_total",
			Help:      "Number of parsed files absorbed into an earlier record.",
		}),
		outputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "outputs_written_total",
			Help:      "Number of consolidated CSV files written.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "last_completed_timestamp_seconds",
			Help:      "Unix timestamp of the end of the run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bpmerge",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall time of the run.",
		}),
	}

	m.registry.MustRegister(m.files, m.readings, m.merges, m.outputs, m.lastRun, m.duration)
	return m
}

// RecordFile counts one file with the given outcome.
func (m *Metrics) RecordFile(outcome string) {
	m.files.WithLabelValues(outcome).Inc()
}

// RecordReadings adds n ingested readings.
func (m *Metrics) RecordReadings(n int) {
	m.readings.Add(float64(n))
}

// RecordMerge counts one absorbed record.
func (m *Metrics) RecordMerge() {
	m.merges.Inc()
}

// RecordOutput counts one written output file.
func (m *Metrics) RecordOutput() {
	m.outputs.Inc()
}

// RecordCompleted stores the end time and duration of the run.
func (m *Metrics) RecordCompleted(start, end time.Time) {
	m.lastRun.Set(float64(end.Unix()))
	m.duration.Set(end.Sub(start).Seconds())
}

// Registry exposes the registry for tests and custom gatherers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every counter to path in Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
