// Package metrics exposes conversion statistics as Prometheus metrics.
//
// A Recorder subscribes to the conversion event bus and can dump its
// registry to a node_exporter textfile after a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fabtopo/internal/domain"
	"fabtopo/internal/service"
)

// Recorder holds all metrics for a conversion
type Recorder struct {
	Nodes            *prometheus.GaugeVec
	DirectedLinks    *prometheus.GaugeVec
	Adjacencies      *prometheus.GaugeVec
	OutputBytes      *prometheus.GaugeVec
	DiagnosticsTotal *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge

	registry *prometheus.Registry
	now      func() time.Time
}

// NewRecorder creates a recorder backed by its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		now:      time.Now,
	}

	r.Nodes = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabtopo_nodes",
			Help: "Number of nodes registered in a subnet",
		},
		[]string{"subnet"},
	)

	r.DirectedLinks = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabtopo_directed_links",
			Help: "Number of directed links in a subnet",
		},
		[]string{"subnet"},
	)

	r.Adjacencies = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabtopo_adjacencies",
			Help: "Number of (source, destination) adjacency entries in a subnet",
		},
		[]string{"subnet"},
	)

	r.OutputBytes = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabtopo_output_bytes",
			Help: "Size of the topology file written for a subnet",
		},
		[]string{"subnet"},
	)

	r.DiagnosticsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabtopo_diagnostics_total",
			Help: "Total number of diagnostics raised, by kind",
		},
		[]string{"kind"},
	)

	r.LastRunTimestamp = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "fabtopo_last_run_timestamp_seconds",
			Help: "Unix time the last conversion completed",
		},
	)

	return r
}

// Handle updates metrics from a conversion event. It has the signature of
// service.Handler.
func (r *Recorder) Handle(event service.Event) {
	switch event.Type {
	case service.EventSubnetBuilt:
		if stats, ok := event.Payload.(service.SubnetStats); ok {
			r.Nodes.WithLabelValues(stats.Subnet).Set(float64(stats.Nodes))
			r.DirectedLinks.WithLabelValues(stats.Subnet).Set(float64(stats.DirectedLinks))
			r.Adjacencies.WithLabelValues(stats.Subnet).Set(float64(stats.Adjacencies))
		}
	case service.EventSubnetWritten:
		if out, ok := event.Payload.(domain.OutputFile); ok {
			r.OutputBytes.WithLabelValues(out.Subnet).Set(float64(out.Bytes))
		}
	case service.EventDiagnostic:
		if d, ok := event.Payload.(domain.Diagnostic); ok {
			r.DiagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
		}
	case service.EventRunCompleted:
		r.LastRunTimestamp.Set(float64(r.now().Unix()))
	}
}

// Gatherer returns the underlying registry for exposition
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
