package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mapty"

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "workouts_created_total",
		Help:      "Workouts accepted from the entry form, by kind.",
	}, []string{"kind"})
	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "validation_failures_total",
		Help:      "Form submissions rejected by validation, by selected kind.",
	}, []string{"kind"})
	positionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "position_failures_total",
		Help:      "Startup position queries that failed, by reason.",
	}, []string{"reason"})
	workoutsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "workouts",
		Help:      "Workouts held in memory by the session.",
	})
	syncPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "sync_pending",
		Help:      "1 while the in-memory list is ahead of the stored list.",
	})
	saveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "save_failures_total",
		Help:      "Saves of the workout list that failed after all attempts.",
	})
	saveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "save_duration_seconds",
		Help:      "Time spent saving the workout list, retries included.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		workoutsCreated,
		validationFailures,
		positionFailures,
		workoutsTracked,
		syncPending,
		saveFailures,
		saveDuration,
	)
}

// RecordWorkoutCreated counts an accepted workout of kind.
func RecordWorkoutCreated(kind string) {
	workoutsCreated.WithLabelValues(kind).Inc()
}

// RecordValidationFailure counts a rejected submission.
func RecordValidationFailure(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	validationFailures.WithLabelValues(kind).Inc()
}

// RecordPositionFailure counts a failed position query.
func RecordPositionFailure(reason string) {
	positionFailures.WithLabelValues(reason).Inc()
}

// SetWorkoutsTracked publishes the size of the in-memory list.
func SetWorkoutsTracked(n int) {
	workoutsTracked.Set(float64(n))
}

// RecordSave observes one save of the workout list and updates the pending
// flag from its outcome.
func RecordSave(started time.Time, err error) {
	saveDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		saveFailures.Inc()
		syncPending.Set(1)
		return
	}
	syncPending.Set(0)
}
