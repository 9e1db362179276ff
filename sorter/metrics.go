package sorter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonEmpty   = "empty"
	reasonInvalid = "invalid"
	reasonTooLong = "too_long"

	phaseRead  = "read"
	phaseWrite = "write"
	phaseTotal = "total"
)

var (
	// linesRead counts every input line seen, including skipped ones.
	linesRead = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "namesort_lines_total",
		Help: "The total number of input lines read",
	})

	// namesAccepted counts lines that parsed as a name.
	namesAccepted = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "namesort_names_total",
		Help: "The total number of names parsed and sorted",
	})

	linesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "namesort_lines_skipped_total",
		Help: "The total number of input lines skipped, by reason",
	}, []string{"reason"})

	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "namesort_phase_duration_seconds",
		Help: "The time spent in each phase of a sort run",
		Buckets: []float64{
			0.001, // 1ms
			0.01,  // 10ms
			0.1,   // 100ms
			1,     // 1s
			10,    // 10s
			60,    // 1m
		},
	}, []string{"phase", "strategy"})
)
