package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/internship-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	workflowEvents   *prometheus.CounterVec
	recomputeTotal   *prometheus.CounterVec
	recomputeRetries prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	workflowEventCount   uint64
	recomputeCount       uint64
	recomputeRetryCount  uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	workflowEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_events_total",
		Help: "Successful workflow mutations by event name",
	}, []string{"event"})

	recomputeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "progress_recompute_total",
		Help: "Work program progress recomputations by result",
	}, []string{"result"})

	recomputeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_recompute_retries_total",
		Help: "Recompute attempts replayed after a serialization failure or deadlock",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, workflowEvents, recomputeTotal, recomputeRetries, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		workflowEvents:   workflowEvents,
		recomputeTotal:   recomputeTotal,
		recomputeRetries: recomputeRetries,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordWorkflowEvent counts a successful workflow mutation.
func (m *MetricsService) RecordWorkflowEvent(event string) {
	if m == nil {
		return
	}
	m.workflowEvents.WithLabelValues(event).Inc()
	atomic.AddUint64(&m.workflowEventCount, 1)
}

// RecordRecompute counts a finished recompute with result "ok" or "failed".
func (m *MetricsService) RecordRecompute(result string) {
	if m == nil {
		return
	}
	m.recomputeTotal.WithLabelValues(result).Inc()
	atomic.AddUint64(&m.recomputeCount, 1)
}

// RecordRecomputeRetry counts a replayed recompute attempt.
func (m *MetricsService) RecordRecomputeRetry() {
	if m == nil {
		return
	}
	m.recomputeRetries.Inc()
	atomic.AddUint64(&m.recomputeRetryCount, 1)
}

// Snapshot returns aggregated metrics suitable for the admin summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		WorkflowEvents:           atomic.LoadUint64(&m.workflowEventCount),
		Recomputes:               atomic.LoadUint64(&m.recomputeCount),
		RecomputeRetries:         atomic.LoadUint64(&m.recomputeRetryCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
