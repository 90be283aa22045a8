package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one engine
type Registry struct {
	// Construction Metrics
	ConstructionsTotal   *prometheus.CounterVec
	ConstructionDuration *prometheus.HistogramVec
	ReplacementsTotal    *prometheus.CounterVec

	// Edge Metrics
	EdgesTotal        *prometheus.CounterVec
	IllegalEdgesTotal *prometheus.CounterVec

	// Registration Metrics
	RegisteredColors    prometheus.Gauge
	RegisteredProviders prometheus.Gauge

	// Store Metrics
	StoreNodesTotal prometheus.Gauge
	StoreEdgesTotal prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// Status labels
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusExisting = "existing"
)

// StyleUnregistered labels constructions whose style matched no provider.
// Unknown styles come from outside and are not used as label values.
const StyleUnregistered = "unregistered"
