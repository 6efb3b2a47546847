package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nationbuilder/nationbuilder/internal/services"
)

// Metrics owns a private registry so tests can build several side by side.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration          *prometheus.HistogramVec
	LeaderboardFetches       *prometheus.CounterVec
	LeaderboardFetchDuration prometheus.Histogram
	NationEvents             *prometheus.CounterVec
	Comparisons              *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nationbuilder_http_request_duration_seconds",
				Help:    "HTTP request latency by route template",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		LeaderboardFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nationbuilder_leaderboard_fetch_total",
				Help: "Leaderboard record fetches by result",
			},
			[]string{"result"},
		),
		LeaderboardFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nationbuilder_leaderboard_fetch_duration_seconds",
				Help:    "Time spent fetching leaderboard records",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		NationEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nationbuilder_nation_events_total",
				Help: "Nation lifecycle events by type",
			},
			[]string{"type"},
		),
		Comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nationbuilder_comparisons_total",
				Help: "Comparisons served by output format",
			},
			[]string{"format"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.LeaderboardFetches,
		m.LeaderboardFetchDuration,
		m.NationEvents,
		m.Comparisons,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LeaderboardFetched records one fetch outcome.
func (m *Metrics) LeaderboardFetched(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.LeaderboardFetches.WithLabelValues(result).Inc()
	m.LeaderboardFetchDuration.Observe(d.Seconds())
}

// Publish counts lifecycle events; it never fails.
func (m *Metrics) Publish(_ context.Context, ev services.NationEvent) error {
	m.NationEvents.WithLabelValues(string(ev.Type)).Inc()
	return nil
}

func (m *Metrics) ComparisonServed(format string) {
	m.Comparisons.WithLabelValues(format).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware observes request latency labelled by the matched mux route
// template, keeping label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.RequestDuration.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
	})
}
