// Package observability holds the Prometheus collectors for the training
// engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	plansGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "engine",
		Name:      "plans_generated_total",
		Help:      "Plans produced by the generators, labelled by plan kind.",
	}, []string{"kind"})
	plansArchived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "engine",
		Name:      "plans_archived_total",
		Help:      "Plans moved to the archived state.",
	})
	workoutsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "engine",
		Name:      "workouts_generated_total",
		Help:      "Scheduled workout rows written by the generators.",
	})
	calibrationResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "engine",
		Name:      "calibration_results_total",
		Help:      "Calibration test submissions, labelled by test type.",
	}, []string{"test"})
	reschedules = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "rescheduler",
		Name:      "resolutions_total",
		Help:      "Missed-workout resolutions, labelled by outcome.",
	}, []string{"outcome"})
	strikes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "adaptation",
		Name:      "strikes_total",
		Help:      "Fatigue strikes recorded across all athletes.",
	})
	adaptations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "adaptation",
		Name:      "events_total",
		Help:      "Adaptation events fired by the strike threshold.",
	})
	maintenanceTopUps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "engine",
		Name:      "maintenance_topups_total",
		Help:      "Maintenance plans extended by the buffer check.",
	})
	dailyPassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trainingplan",
		Subsystem: "rescheduler",
		Name:      "daily_pass_duration_seconds",
		Help:      "Wall-clock duration of the daily rescheduler pass.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	athletesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainingplan",
		Subsystem: "rescheduler",
		Name:      "athletes_skipped_total",
		Help:      "Athletes skipped during a daily pass due to errors or timeouts.",
	})
)

func init() {
	prometheus.MustRegister(
		plansGenerated,
		plansArchived,
		workoutsGenerated,
		calibrationResults,
		reschedules,
		strikes,
		adaptations,
		maintenanceTopUps,
		dailyPassDuration,
		athletesSkipped,
	)
}

// RecordPlanGenerated counts a generated plan by kind.
func RecordPlanGenerated(kind string) { plansGenerated.WithLabelValues(kind).Inc() }

// RecordPlanArchived counts an archived plan.
func RecordPlanArchived() { plansArchived.Inc() }

// RecordWorkoutsGenerated counts a batch of generated workouts.
func RecordWorkoutsGenerated(n int) { workoutsGenerated.Add(float64(n)) }

// RecordCalibrationResult counts a calibration submission by test type.
func RecordCalibrationResult(test string) { calibrationResults.WithLabelValues(test).Inc() }

// RecordReschedule counts one missed-workout resolution by outcome.
func RecordReschedule(outcome string) { reschedules.WithLabelValues(outcome).Inc() }

// RecordStrike counts one fatigue strike.
func RecordStrike() { strikes.Inc() }

// RecordAdaptation counts one fired adaptation event.
func RecordAdaptation() { adaptations.Inc() }

// RecordMaintenanceTopUp counts one maintenance buffer extension.
func RecordMaintenanceTopUp() { maintenanceTopUps.Inc() }

// RecordDailyPass observes the duration of a full rescheduler pass.
func RecordDailyPass(d time.Duration) { dailyPassDuration.Observe(d.Seconds()) }

// RecordAthleteSkipped counts an athlete skipped during the daily pass.
func RecordAthleteSkipped() { athletesSkipped.Inc() }
