// Package metrics exposes the Prometheus instruments for the detection
// engine. The collectors live on a private registry so the /metrics endpoint
// only serves what this process registers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the instruments recorded across load and detection cycles.
type Metrics struct {
	registry *prometheus.Registry

	LoadsTotal        *prometheus.CounterVec
	LoadDuration      prometheus.Histogram
	DetectionsTotal   *prometheus.CounterVec
	DetectionDuration prometheus.Histogram
	NetworksFound     *prometheus.CounterVec
	WarningsTotal     *prometheus.CounterVec
}

// New builds the registry and registers all collectors on it, including the
// standard Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "loads_total",
			Help:      "Graph load cycles by outcome.",
		}, []string{"status"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "load_duration_seconds",
			Help:      "Wall time spent rebuilding the graph from input records.",
			Buckets:   prometheus.DefBuckets,
		}),
		DetectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "detections_total",
			Help:      "Detection cycles by outcome.",
		}, []string{"status"}),
		DetectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "detection_duration_seconds",
			Help:      "Wall time spent running detectors and analyses.",
			Buckets:   prometheus.DefBuckets,
		}),
		NetworksFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "networks_found_total",
			Help:      "Suspicious networks surfaced, by detector type.",
		}, []string{"type"}),
		WarningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurax",
			Subsystem: "fraud_rings",
			Name:      "warnings_total",
			Help:      "Detection stages that failed and were skipped.",
		}, []string{"stage"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
