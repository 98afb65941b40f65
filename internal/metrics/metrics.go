package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shareit"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by process, route and status.",
		},
		[]string{"process", "route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by process and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"process", "route"},
	)

	bookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_events_total",
			Help:      "Booking lifecycle events by type.",
		},
		[]string{"type"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter.",
		},
		[]string{"limiter"},
	)
)

// Register registers the collectors with the default registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingEvents, rateLimited)
	})
}

// ObserveHTTP records one finished request. route is the router pattern, not the raw path.
func ObserveHTTP(process, route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(process, route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(process, route).Observe(elapsed.Seconds())
}

func IncBookingEvent(eventType string) {
	bookingEvents.WithLabelValues(eventType).Inc()
}

func IncRateLimited(limiter string) {
	rateLimited.WithLabelValues(limiter).Inc()
}
