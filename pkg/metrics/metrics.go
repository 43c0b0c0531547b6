// Package metrics exposes Prometheus metrics for the deploy pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitedrop"

// Deploy outcomes used as the "outcome" label
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeConfig   = "misconfigured"
	OutcomeFailure  = "failure"
)

// Pipeline stages used as the "stage" label
const (
	StageCreateSite   = "create_site"
	StageBuildArchive = "build_archive"
	StageDeploy       = "deploy"
)

// Collector owns a private registry. A nil *Collector is valid and records
// nothing.
type Collector struct {
	registry *prometheus.Registry

	deploysTotal  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	archiveBytes  prometheus.Histogram
	uploadFiles   prometheus.Histogram
}

// NewCollector creates and registers all deploy metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		deploysTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deploys_total",
				Help:      "Total number of deploy requests by outcome",
			},
			[]string{"outcome"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "deploy_stage_duration_seconds",
				Help:      "Duration of each deploy pipeline stage",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage", "status"},
		),

		archiveBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archive_size_bytes",
				Help:      "Size of the ZIP archive sent to the hosting provider",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
		),

		uploadFiles: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_files",
				Help:      "Number of files in a deploy request",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
	}

	c.registry.MustRegister(
		c.deploysTotal,
		c.stageDuration,
		c.archiveBytes,
		c.uploadFiles,
	)

	return c
}

// RecordOutcome counts a finished deploy request
func (c *Collector) RecordOutcome(outcome string) {
	if c == nil {
		return
	}
	c.deploysTotal.WithLabelValues(outcome).Inc()
}

// RecordStage records how long a pipeline stage took
func (c *Collector) RecordStage(stage string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.stageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// RecordArchive records the archive size
func (c *Collector) RecordArchive(size int) {
	if c == nil {
		return
	}
	c.archiveBytes.Observe(float64(size))
}

// RecordUpload records the number of uploaded files
func (c *Collector) RecordUpload(files int) {
	if c == nil {
		return
	}
	c.uploadFiles.Observe(float64(files))
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
