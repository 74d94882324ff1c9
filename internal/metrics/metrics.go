// Package metrics holds the Prometheus collectors for schedule generation.
package metrics

import (
	"errors"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SchedulesGenerated counts computed schedules by scenario (base, extras).
	SchedulesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_schedules_total",
			Help: "Number of amortization schedules generated",
		},
		[]string{"scenario"},
	)

	// CalculationErrors counts rejected or failed schedule requests.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_errors_total",
			Help: "Number of schedule requests that failed",
		},
		[]string{"error_type"},
	)

	// CacheLookups counts schedule cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_cache_lookups_total",
			Help: "Schedule cache lookups",
		},
		[]string{"result"},
	)

	// GenerationSeconds observes the time spent computing schedules per request.
	GenerationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "amortization_generation_seconds",
			Help:    "Time spent generating schedules for one request",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

// ErrorType classifies err for the error_type label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, amortization.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, amortization.ErrUnimplementedMode):
		return "unimplemented_mode"
	default:
		return "internal"
	}
}
