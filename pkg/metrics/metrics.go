// Package metrics exposes Prometheus metrics for node construction, edge
// validation and registry growth.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry creates a new metrics registry with all metrics initialized.
// Each engine may own one so that independent graphs do not share counters.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initConstructionMetrics()
	r.initEdgeMetrics()
	r.initRegistrationMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordConstruction records one Construct call. style is empty for the
// default provider.
func (r *Registry) RecordConstruction(style, status string, duration time.Duration) {
	if style == "" {
		style = "default"
	}
	r.ConstructionsTotal.WithLabelValues(style, status).Inc()
	r.ConstructionDuration.WithLabelValues(style).Observe(duration.Seconds())
}

// RecordReplacement records one node substitution
func (r *Registry) RecordReplacement(status string) {
	r.ReplacementsTotal.WithLabelValues(status).Inc()
}

// RecordEdge records one AddEdge call
func (r *Registry) RecordEdge(status string) {
	r.EdgesTotal.WithLabelValues(status).Inc()
}

// RecordIllegalEdge records a rejected edge by the rule it broke
func (r *Registry) RecordIllegalEdge(reason string) {
	r.IllegalEdgesTotal.WithLabelValues(reason).Inc()
}

// SetRegistrySizes updates the registration gauges
func (r *Registry) SetRegistrySizes(colors, providers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RegisteredColors.Set(float64(colors))
	r.RegisteredProviders.Set(float64(providers))
}

// SetColorCount updates the registered colors gauge
func (r *Registry) SetColorCount(n int) {
	r.RegisteredColors.Set(float64(n))
}

// SetProviderCount updates the registered providers gauge
func (r *Registry) SetProviderCount(n int) {
	r.RegisteredProviders.Set(float64(n))
}

// SetStoreSizes updates the store gauges
func (r *Registry) SetStoreSizes(nodes, edges uint64) {
	r.StoreNodesTotal.Set(float64(nodes))
	r.StoreEdgesTotal.Set(float64(edges))
}
