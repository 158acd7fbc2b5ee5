// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transitions       *prometheus.CounterVec
	SafetyAssessments *prometheus.CounterVec
	FeedRefreshes     *prometheus.CounterVec
	FeedSubscribers   prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodhelp_donation_transitions_total",
			Help: "Donation lifecycle actions by action and outcome",
		}, []string{"action", "outcome"}),

		SafetyAssessments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodhelp_safety_assessments_total",
			Help: "Food safety assessments by result (scored or degraded)",
		}, []string{"result"}),

		FeedRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodhelp_feed_refreshes_total",
			Help: "Live feed snapshot refreshes by result",
		}, []string{"result"}),

		FeedSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "foodhelp_feed_subscribers",
			Help: "Open live feed subscriptions",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodhelp_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodhelp_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// IncTransition records the outcome of a lifecycle action.
func (m *Metrics) IncTransition(action, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(action, outcome).Inc()
	}
}

// IncSafety records a safety assessment result.
func (m *Metrics) IncSafety(degraded bool) {
	if m == nil {
		return
	}
	result := "scored"
	if degraded {
		result = "degraded"
	}
	m.SafetyAssessments.WithLabelValues(result).Inc()
}

// IncFeedRefresh records a feed refresh.
func (m *Metrics) IncFeedRefresh(degraded bool) {
	if m == nil {
		return
	}
	result := "ok"
	if degraded {
		result = "degraded"
	}
	m.FeedRefreshes.WithLabelValues(result).Inc()
}

// SetFeedSubscribers sets the open subscription gauge.
func (m *Metrics) SetFeedSubscribers(n int) {
	if m != nil {
		m.FeedSubscribers.Set(float64(n))
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
