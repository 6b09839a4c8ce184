package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmrent",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmrent",
			Name:      "bookings_created_total",
			Help:      "Bookings created by kind.",
		},
		[]string{"kind"},
	)

	bookingsCanceled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "farmrent",
			Name:      "bookings_canceled_total",
			Help:      "Bookings moved to the canceled status.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsCanceled)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated counts a created booking by item kind.
func IncBookingCreated(kind string) {
	bookingsCreated.WithLabelValues(kind).Inc()
}

// IncBookingCanceled counts a canceled booking.
func IncBookingCanceled() {
	bookingsCanceled.Inc()
}
