// Package metrics exposes Prometheus collectors for the marketplace.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolease_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autolease_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	applicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolease_offer_applications_total",
		Help: "Offer application operations by action and result",
	}, []string{"action", "result"})

	carCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolease_car_cache_lookups_total",
		Help: "Car cache lookups by result",
	}, []string{"result"})

	eventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolease_event_publish_failures_total",
		Help: "Domain events that could not be published",
	}, []string{"subject"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveApplication counts a submit, review or cancel by its outcome.
func ObserveApplication(action, result string) {
	applicationsTotal.WithLabelValues(action, result).Inc()
}

// ObserveCarCache counts a car cache lookup.
func ObserveCarCache(hit bool) {
	if hit {
		carCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	carCacheLookups.WithLabelValues("miss").Inc()
}

// ObservePublishFailure counts an event that could not be published.
func ObservePublishFailure(subject string) {
	eventPublishFailures.WithLabelValues(subject).Inc()
}
