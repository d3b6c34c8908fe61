package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CompletionAttempts *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	RenderDuration     prometheus.Histogram
	RenderRejections   *prometheus.CounterVec
	PagesGenerated     *prometheus.CounterVec
	PageFailures       *prometheus.CounterVec
	PagesStored        prometheus.Gauge
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		CompletionAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generator_completion_attempts_total",
				Help: "Model candidate attempts by outcome.",
			},
			[]string{"model", "variant", "outcome"}, // outcome: accepted, transport, auth, status, malformed, extraction, unsafe, render
		),
		CompletionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "generator_completion_duration_seconds",
				Help:    "Duration of completion requests.",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
		RenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generator_render_duration_seconds",
				Help:    "Duration of render oracle checks.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10},
			},
		),
		RenderRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generator_render_rejections_total",
				Help: "Documents rejected by the render oracle.",
			},
			[]string{"reason"}, // blank, script_error, engine
		),
		PagesGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generator_pages_generated_total",
				Help: "Pages persisted, by provenance mode.",
			},
			[]string{"mode"},
		),
		PageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generator_page_failures_total",
				Help: "Page attempts that produced nothing.",
			},
			[]string{"reason"},
		),
		PagesStored: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "generator_pages_stored",
				Help: "Number of pages in the store at the last check.",
			},
		),
	}
}
