// Package metrics provides Prometheus metrics for the tracking server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector registers and exposes the tracking server's metrics on its own
// registry.
type Collector struct {
	registry *prometheus.Registry

	runsStarted      prometheus.Counter
	runsFinished     prometheus.Counter
	artifactsCreated *prometheus.CounterVec
	filesUploaded    prometheus.Counter
	uploadBytes      prometheus.Counter

	logger *zap.Logger
}

// NewCollector creates a new metrics collector.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()

	runsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datalift_runs_started_total",
		Help: "Total runs started",
	})

	runsFinished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datalift_runs_finished_total",
		Help: "Total runs finished",
	})

	artifactsCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datalift_artifacts_created_total",
			Help: "Total artifacts created",
		},
		[]string{"type"},
	)

	filesUploaded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datalift_files_uploaded_total",
		Help: "Total artifact files uploaded",
	})

	uploadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datalift_upload_bytes_total",
		Help: "Total bytes of artifact file content uploaded",
	})

	registry.MustRegister(runsStarted, runsFinished, artifactsCreated, filesUploaded, uploadBytes)

	return &Collector{
		registry:         registry,
		runsStarted:      runsStarted,
		runsFinished:     runsFinished,
		artifactsCreated: artifactsCreated,
		filesUploaded:    filesUploaded,
		uploadBytes:      uploadBytes,
		logger:           logger,
	}
}

// RunStarted records a run creation.
func (c *Collector) RunStarted() {
	c.runsStarted.Inc()
}

// RunFinished records a run reaching the finished state.
func (c *Collector) RunFinished() {
	c.runsFinished.Inc()
}

// ArtifactCreated records an artifact creation by artifact type.
func (c *Collector) ArtifactCreated(artifactType string) {
	c.artifactsCreated.WithLabelValues(artifactType).Inc()
}

// FileUploaded records one uploaded artifact file and its size.
func (c *Collector) FileUploaded(size int64) {
	c.filesUploaded.Inc()
	c.uploadBytes.Add(float64(size))
}

// Handler returns the HTTP handler serving the registry in Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
