package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	Register()
	Register()

	ObserveHTTP("server", "/items/{itemId}", "GET", 200, 15*time.Millisecond)
	ObserveHTTP("server", "/items/{itemId}", "GET", 200, 20*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(httpRequests.WithLabelValues("server", "/items/{itemId}", "GET", "200")))

	IncBookingEvent("booking_created")
	assert.Equal(t, 1.0, testutil.ToFloat64(bookingEvents.WithLabelValues("booking_created")))

	IncRateLimited("gateway_user")
	assert.Equal(t, 1.0, testutil.ToFloat64(rateLimited.WithLabelValues("gateway_user")))
}
