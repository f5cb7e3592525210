package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal tracks Transition calls by machine, endpoints, and outcome.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of transition attempts by machine, from_state, to_state, and outcome (success or error)",
	}, []string{"machine", "from_state", "to_state", "outcome"})

	// transitionDuration tracks end-to-end Transition call time, including
	// guard and action execution.
	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fsm_transition_duration_seconds",
		Help:    "Duration of transition calls by machine and outcome",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"machine", "outcome"})

	// guardRejectionsTotal tracks transitions declined by a guard.
	guardRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_guard_rejections_total",
		Help: "Total number of transitions declined by a guard, by machine, from_state, and to_state",
	}, []string{"machine", "from_state", "to_state"})
)

func sanitizeMachine(name string) string {
	if name == "" {
		return "unknown"
	}

	return name
}
