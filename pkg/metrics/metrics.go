// Package metrics holds the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts bookings accepted into the ledger.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mentorhub",
		Name:      "bookings_created_total",
		Help:      "Number of bookings created.",
	})

	// BookingTransitions counts status transitions by target status.
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentorhub",
		Name:      "booking_transitions_total",
		Help:      "Number of booking status transitions, labelled by resulting status.",
	}, []string{"to"})

	// BookingConflicts counts rejected double-booking attempts.
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mentorhub",
		Name:      "booking_conflicts_total",
		Help:      "Number of booking requests rejected due to slot overlap.",
	})

	// ReviewsSubmitted counts accepted reviews.
	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mentorhub",
		Name:      "reviews_submitted_total",
		Help:      "Number of reviews accepted.",
	})
)
