// Package metrics exports dispatch and slop metrics to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/slop"
)

const namespace = "voiceprint"

// Collector implements core.TelemetryHook and slop.Observer on a private
// registry.
type Collector struct {
	registry *prometheus.Registry

	inFlight  *prometheus.GaugeVec
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	slopScore *prometheus.HistogramVec
	repairs   *prometheus.CounterVec
}

// New registers the voiceprint metrics on registry, or on a fresh registry
// when nil.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: registry,
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Dispatches currently waiting on a provider.",
		}, []string{"provider"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Completed dispatches by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Dispatch latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider", "operation"}),
		slopScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slop_score",
			Help:      "Slop score of scanned text.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"stage"}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slop_repairs_total",
			Help:      "Repair passes by outcome.",
		}, []string{"outcome"}),
	}
	registry.MustRegister(c.inFlight, c.requests, c.duration, c.slopScore, c.repairs)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// OnRequestStart implements core.TelemetryHook.
func (c *Collector) OnRequestStart(e core.RequestStartEvent) {
	c.inFlight.WithLabelValues(string(e.Provider)).Inc()
}

// OnRequestEnd implements core.TelemetryHook.
func (c *Collector) OnRequestEnd(e core.RequestEndEvent) {
	provider, op := string(e.Provider), string(e.Operation)
	c.inFlight.WithLabelValues(provider).Dec()

	outcome := "ok"
	if e.Err != nil {
		outcome = string(e.Kind)
	}
	c.requests.WithLabelValues(provider, op, outcome).Inc()
	c.duration.WithLabelValues(provider, op).Observe(e.Duration().Seconds())
}

// ObserveScan implements slop.Observer.
func (c *Collector) ObserveScan(stage slop.Stage, r slop.Report) {
	c.slopScore.WithLabelValues(string(stage)).Observe(float64(r.Score))
}

// ObserveRepair implements slop.Observer.
func (c *Collector) ObserveRepair(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.repairs.WithLabelValues(outcome).Inc()
}

var (
	_ core.TelemetryHook = (*Collector)(nil)
	_ slop.Observer      = (*Collector)(nil)
)
