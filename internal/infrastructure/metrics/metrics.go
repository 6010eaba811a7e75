package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/feefines/internal/domain"
)

const namespace = "feefines"

// Metrics holds all Prometheus metrics. It implements usecase.Observer.
type Metrics struct {
	// Engine metrics
	ActionsApplied  *prometheus.CounterVec
	ActionAmount    *prometheus.HistogramVec
	ActionsRejected *prometheus.CounterVec
	RefundAccounts  prometheus.Histogram
	RefundPasses    prometheus.Histogram

	// Event metrics
	EventsPublished      *prometheus.CounterVec
	EventPublishFailures *prometheus.CounterVec
	EventsDropped        prometheus.Counter

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter
	IdempotentHit prometheus.Counter
}

// New creates the metrics and registers them with reg.
// A nil reg registers with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ActionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_applied_total",
				Help:      "Fee/fine actions committed, by action type",
			},
			[]string{"action"},
		),
		ActionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_amount",
				Help:      "Requested amount of committed actions",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 500, 1000},
			},
			[]string{"action"},
		),
		ActionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_rejected_total",
				Help:      "Fee/fine actions rejected, by action type and reason",
			},
			[]string{"action", "reason"},
		),
		RefundAccounts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refund_allocation_accounts",
			Help:      "Number of fees/fines in a fair-share refund allocation",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		RefundPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refund_allocation_passes",
			Help:      "Redistribution passes taken by the fair-share allocator",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50},
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Events handed to the event bus",
			},
			[]string{"event_type"},
		),
		EventPublishFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_publish_failures_total",
				Help:      "Events the event bus refused",
			},
			[]string{"event_type"},
		),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events dropped because the dispatch buffer was full",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests refused by the rate limiter",
		}),
		IdempotentHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Responses served from the idempotency store",
		}),
	}
}

// ActionApplied records a committed action.
func (m *Metrics) ActionApplied(actionType domain.ActionType, amount domain.MonetaryValue) {
	label := string(actionType)
	m.ActionsApplied.WithLabelValues(label).Inc()
	m.ActionAmount.WithLabelValues(label).Observe(amount.Decimal().InexactFloat64())
}

// ActionRejected records a rejected action.
func (m *Metrics) ActionRejected(actionType domain.ActionType, reason string) {
	m.ActionsRejected.WithLabelValues(string(actionType), reason).Inc()
}

// RefundAllocated records the shape of a fair-share allocation.
func (m *Metrics) RefundAllocated(accounts, passes int) {
	m.RefundAccounts.Observe(float64(accounts))
	m.RefundPasses.Observe(float64(passes))
}

// EventPublishFailed records an event the bus refused.
func (m *Metrics) EventPublishFailed(eventType string) {
	m.EventPublishFailures.WithLabelValues(eventType).Inc()
}

// EventPublished records an event handed to the bus.
func (m *Metrics) EventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// EventDropped records an event lost to a full dispatch buffer.
func (m *Metrics) EventDropped() {
	m.EventsDropped.Inc()
}

// ObserveHTTP records a finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if status == 0 {
		status = http.StatusOK
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
