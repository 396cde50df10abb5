package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors on a private registry so several
// servers can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	analyses     *prometheus.CounterVec
	duration     prometheus.Histogram
	uploadBytes  prometheus.Histogram
	httpRequests *prometheus.CounterVec
}

// NewMetrics registers the service collectors plus the Go and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_analyses_total",
			Help: "Analyses run, by outcome",
		}, []string{"status"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "insight_analysis_duration_seconds",
			Help:    "Time spent decoding and analysing one upload",
			Buckets: prometheus.DefBuckets,
		}),
		uploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "insight_upload_bytes",
			Help:    "Size of uploaded datasets",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "code"}),
	}
}
