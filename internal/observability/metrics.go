// Package observability exposes Prometheus metrics for HTTP traffic and the
// maintenance lifecycle.
package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	requestsCreated   prometheus.Counter
	stageTransitions  *prometheus.CounterVec
	equipmentScrapped prometheus.Counter
}

// NewMetrics registers every collector on a private registry so tests can
// build as many instances as they like.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gearguard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gearguard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gearguard",
			Name:      "requests_created_total",
			Help:      "Maintenance requests created.",
		}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gearguard",
			Name:      "stage_transitions_total",
			Help:      "Maintenance request stage changes.",
		}, []string{"from", "to"}),
		equipmentScrapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gearguard",
			Name:      "equipment_scrapped_total",
			Help:      "Equipment scrapped by the request lifecycle.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.requestsCreated,
		m.stageTransitions,
		m.equipmentScrapped,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Subscribe feeds the lifecycle counters from the event bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRequestCreated, func(ctx context.Context, event events.Event) error {
		m.requestsCreated.Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeRequestStageChanged, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.RequestStageChangedEvent); ok {
			m.stageTransitions.WithLabelValues(e.From, e.To).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeEquipmentScrapped, func(ctx context.Context, event events.Event) error {
		m.equipmentScrapped.Inc()
		return nil
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records a counter and latency histogram per chi route pattern.
// Unmatched paths are folded into a single label to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
