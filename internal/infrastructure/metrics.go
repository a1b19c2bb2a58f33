package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnalysisRuns    *prometheus.CounterVec
	BatchesAnalyzed prometheus.Gauge
	RegisterRows    *prometheus.GaugeVec
}

// NewMetrics creates and registers the application collectors on a fresh
// registry, alongside the standard Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invrecon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invrecon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AnalysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invrecon",
			Name:      "analysis_runs_total",
			Help:      "Analysis executions by kind and outcome.",
		}, []string{"analysis", "outcome"}),
		BatchesAnalyzed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "invrecon",
			Name:      "batches_analyzed",
			Help:      "Batches covered by the most recent profit decomposition.",
		}),
		RegisterRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "invrecon",
			Name:      "register_rows",
			Help:      "Rows in the loaded registers by register type.",
		}, []string{"register"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.AnalysisRuns,
		m.BatchesAnalyzed,
		m.RegisterRows,
	)

	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chiRouteContext(r); rctx != "" {
			route = rctx
		}

		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// chiRouteContext returns the matched chi route pattern, if any.
func chiRouteContext(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// ObserveAnalysis records one analysis execution.
func (m *Metrics) ObserveAnalysis(analysis string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AnalysisRuns.WithLabelValues(analysis, outcome).Inc()
}

// ObserveRegisters records the size of the loaded data set.
func (m *Metrics) ObserveRegisters(purchases, sales, expenses int) {
	m.RegisterRows.WithLabelValues("purchases").Set(float64(purchases))
	m.RegisterRows.WithLabelValues("sales").Set(float64(sales))
	m.RegisterRows.WithLabelValues("expenses").Set(float64(expenses))
}
