// Package metrics exposes prometheus collectors for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SalesCreated      *prometheus.CounterVec
	PaymentsInitiated prometheus.Counter
	PaymentsFailed    prometheus.Counter
	PaymentCallbacks  *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
}

// New creates and registers the application collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_http_requests_total",
			Help: "Total number of HTTP requests handled",
		}, []string{"method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boutique_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		SalesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_sales_created_total",
			Help: "Total number of sales created, by type",
		}, []string{"type"}),
		PaymentsInitiated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boutique_payments_initiated_total",
			Help: "Total number of payment charges initiated",
		}),
		PaymentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boutique_payments_failed_total",
			Help: "Total number of payment charges that failed to initiate",
		}),
		PaymentCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_payment_callbacks_total",
			Help: "Total number of payment provider callbacks received, by outcome",
		}, []string{"outcome"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_notifications_sent_total",
			Help: "Total number of notifications dispatched, by result",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.SalesCreated,
		m.PaymentsInitiated,
		m.PaymentsFailed,
		m.PaymentCallbacks,
		m.NotificationsSent,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
