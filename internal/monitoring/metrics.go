package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector handles metrics collection and reporting. A nil Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	dispatches    *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	submitted     prometheus.Counter
	fillings      prometheus.Gauge
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	dispatches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderbuilder_dispatch_total",
			Help: "State transitions applied per slice and action",
		},
		[]string{"slice", "action"},
	)

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderbuilder_fetch_total",
			Help: "Completed fetches per slice and outcome",
		},
		[]string{"slice", "outcome"},
	)

	fetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderbuilder_fetch_duration_seconds",
			Help:    "Time taken by fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"slice"},
	)

	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orderbuilder_orders_submitted_total",
		Help: "Orders accepted by the submission collaborator",
	})

	fillings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orderbuilder_builder_fillings",
		Help: "Fillings currently in the builder",
	})

	registry.MustRegister(dispatches, fetches, fetchDuration, submitted, fillings)

	return &Collector{
		registry:      registry,
		dispatches:    dispatches,
		fetches:       fetches,
		fetchDuration: fetchDuration,
		submitted:     submitted,
		fillings:      fillings,
	}
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordDispatch counts one applied transition
func (c *Collector) RecordDispatch(slice, action string) {
	if c == nil {
		return
	}
	c.dispatches.WithLabelValues(slice, action).Inc()
}

// RecordFetch counts a finished fetch and observes its duration
func (c *Collector) RecordFetch(slice, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(slice, outcome).Inc()
	c.fetchDuration.WithLabelValues(slice).Observe(took.Seconds())
}

// RecordSubmission counts an accepted order
func (c *Collector) RecordSubmission() {
	if c == nil {
		return
	}
	c.submitted.Inc()
}

// SetFillings tracks the builder size
func (c *Collector) SetFillings(n int) {
	if c == nil {
		return
	}
	c.fillings.Set(float64(n))
}
