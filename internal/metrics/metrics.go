// Package metrics exposes Prometheus collectors for the recipe pipeline
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages
const (
	StageExtract  = "extract"
	StageParse    = "parse"
	StageImage    = "image"
	StageStorage  = "storage"
	StageSMS      = "sms"
	OutcomeOK     = "success"
	OutcomeFailed = "failure"
)

// Collector holds the collectors registered for this process. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	stageTotal         *prometheus.CounterVec
	generationDuration prometheus.Histogram
	imageSourceTotal   *prometheus.CounterVec
}

// NewCollector creates the collectors on a dedicated registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriscan_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nutriscan_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		stageTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriscan_pipeline_stage_total",
				Help: "Pipeline stage outcomes",
			},
			[]string{"stage", "outcome"},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nutriscan_recipe_generation_duration_seconds",
				Help:    "Wall-clock time of a full recipe generation",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		imageSourceTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriscan_recipe_image_source_total",
				Help: "Provenance of the image attached to generated recipes",
			},
			[]string{"source"},
		),
	}
}

// Registry returns the registry backing the collector
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's metrics
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveStage records the outcome of a pipeline stage
func (c *Collector) ObserveStage(stage string, ok bool) {
	if c == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	c.stageTotal.WithLabelValues(stage, outcome).Inc()
}

// ObserveGeneration records the duration of a completed generation
func (c *Collector) ObserveGeneration(duration time.Duration) {
	if c == nil {
		return
	}
	c.generationDuration.Observe(duration.Seconds())
}

// ObserveImageSource records where a recipe image came from
func (c *Collector) ObserveImageSource(source string) {
	if c == nil {
		return
	}
	c.imageSourceTotal.WithLabelValues(source).Inc()
}
