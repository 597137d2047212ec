package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "enginewatch"

const (
	// OutcomeSent labels alerts accepted by the messaging endpoint.
	OutcomeSent = "sent"
	// OutcomeFailed labels alerts whose delivery failed.
	OutcomeFailed = "failed"
	// OutcomeSuppressed labels alerts skipped by one-shot suppression.
	OutcomeSuppressed = "suppressed"
)

var (
	ticksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Samples processed, partitioned by engine status.",
		},
		[]string{"status"},
	)

	irregularitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "irregularities_total",
			Help:      "RPM irregularities flagged, partitioned by kind.",
		},
		[]string{"kind"},
	)

	principalCauseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "principal_cause_total",
			Help:      "Principal failure cause selected per sample.",
		},
		[]string{"cause"},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alert decisions, partitioned by category and outcome.",
		},
		[]string{"category", "outcome"},
	)

	dispatchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_seconds",
			Help:      "Alert dispatch round-trip latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
		},
	)

	activeRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_runs",
			Help:      "Monitoring runs currently in the running state.",
		},
	)
)

// Register attaches enginewatch collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ticksTotal,
		irregularitiesTotal,
		principalCauseTotal,
		alertsTotal,
		dispatchDurationSeconds,
		activeRuns,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveTick records one processed sample.
func ObserveTick(status string, irregularityKinds []string, principal string) {
	ticksTotal.WithLabelValues(status).Inc()
	for _, kind := range irregularityKinds {
		irregularitiesTotal.WithLabelValues(kind).Inc()
	}
	principalCauseTotal.WithLabelValues(principal).Inc()
}

// ObserveAlert records an alert decision for a category.
func ObserveAlert(category, outcome string) {
	switch outcome {
	case OutcomeSent, OutcomeSuppressed:
	default:
		outcome = OutcomeFailed
	}
	alertsTotal.WithLabelValues(category, outcome).Inc()
}

// ObserveDispatch records a dispatch round-trip duration.
func ObserveDispatch(duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	dispatchDurationSeconds.Observe(duration.Seconds())
}

// RunStarted and RunFinished track the active run gauge.
func RunStarted()  { activeRuns.Inc() }
func RunFinished() { activeRuns.Dec() }
