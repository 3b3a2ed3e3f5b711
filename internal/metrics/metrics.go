// Package metrics provides Prometheus metrics for the regionsel daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Derivations counts option derivations by memo result (hit or miss).
var Derivations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "regionsel",
	Name:      "derivations_total",
	Help:      "Option derivations by cache result.",
}, []string{"result"})

// OptionsReturned tracks the size of derived option lists.
var OptionsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "regionsel",
	Name:      "options_returned",
	Help:      "Number of options returned per derivation.",
	Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
})

// RequestsTotal counts daemon requests by transport, method and result.
var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "regionsel",
	Name:      "requests_total",
	Help:      "Daemon requests handled.",
}, []string{"transport", "method", "result"})

// RequestDuration tracks daemon request latency in seconds.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "regionsel",
	Name:      "request_duration_seconds",
	Help:      "Daemon request duration in seconds.",
	Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
}, []string{"transport", "method"})

// CatalogRegions tracks the number of regions in the loaded catalog.
var CatalogRegions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "regionsel",
	Name:      "catalog_regions",
	Help:      "Regions in the loaded catalog.",
})

// CatalogReloads counts catalog reloads by result.
var CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "regionsel",
	Name:      "catalog_reloads_total",
	Help:      "Catalog reloads by result.",
}, []string{"result"})
