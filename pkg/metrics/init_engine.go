package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initConstructionMetrics() {
	r.ConstructionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_constructions_total",
			Help: "Total number of node constructions by style and status",
		},
		[]string{"style", "status"},
	)

	r.ConstructionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "typegraph_construction_duration_seconds",
			Help:    "Node construction duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"style"},
	)

	r.ReplacementsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_replacements_total",
			Help: "Total number of node substitutions by status",
		},
		[]string{"status"},
	)
}

func (r *Registry) initEdgeMetrics() {
	r.EdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_edges_total",
			Help: "Total number of edge insertions by status",
		},
		[]string{"status"},
	)

	r.IllegalEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_illegal_edges_total",
			Help: "Total number of edges rejected by role rule",
		},
		[]string{"reason"},
	)
}

func (r *Registry) initRegistrationMetrics() {
	r.RegisteredColors = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "typegraph_registered_colors",
			Help: "Number of registered colors",
		},
	)

	r.RegisteredProviders = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "typegraph_registered_providers",
			Help: "Number of registered attribute providers, excluding the default",
		},
	)

	r.StoreNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "typegraph_store_nodes_total",
			Help: "Total number of nodes in the store",
		},
	)

	r.StoreEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "typegraph_store_edges_total",
			Help: "Total number of edges in the store",
		},
	)
}
