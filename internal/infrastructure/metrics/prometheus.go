// Package metrics exports workspace counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "careshell"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	TabOperations    *prometheus.CounterVec
	SnapshotFailures *prometheus.CounterVec
	OpenTabs         prometheus.Gauge

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var _ port.WorkspaceMetrics = (*Metrics)(nil)

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TabOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tab_operations_total",
				Help:      "Tab registry operations by kind",
			},
			[]string{"op"},
		),
		SnapshotFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_failures_total",
				Help:      "Failed snapshot reads and writes by kind",
			},
			[]string{"kind"},
		),
		OpenTabs: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "open_tabs",
				Help:      "Tabs open across all mounted workspaces",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TabOperation(op string) {
	m.TabOperations.WithLabelValues(op).Inc()
}

func (m *Metrics) SnapshotFailure(kind string) {
	m.SnapshotFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) OpenTabsDelta(delta int) {
	m.OpenTabs.Add(float64(delta))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
