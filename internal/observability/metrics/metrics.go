package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roombook_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roombook_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roombook_booking_operations_total",
		Help: "Booking mutations by operation and outcome",
	}, []string{"operation", "result"})

	membershipOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roombook_membership_operations_total",
		Help: "Membership mutations by operation and outcome",
	}, []string{"operation", "result"})

	roomLockWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roombook_room_lock_wait_seconds",
		Help:    "Time spent waiting for a per-room lock",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBooking counts a booking mutation attempt. result is one of
// created, updated, deleted, conflict, forbidden, invalid_interval, error.
func ObserveBooking(operation, result string) {
	bookingDecisions.WithLabelValues(operation, result).Inc()
}

// ObserveMembership counts a membership mutation attempt. result is one of
// added, removed, duplicate, user_not_found, forbidden, error.
func ObserveMembership(operation, result string) {
	membershipOperations.WithLabelValues(operation, result).Inc()
}

// ObserveLockWait records how long a request waited for its room lock.
func ObserveLockWait(duration time.Duration) {
	roomLockWait.Observe(duration.Seconds())
}
