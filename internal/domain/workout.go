package domain

import "time"

// Sport identifies the discipline of a workout.
type Sport string

const (
	SportSwim Sport = "swim"
	SportBike Sport = "bike"
	SportRun  Sport = "run"
)

// ValidSport reports whether s is a known sport.
func ValidSport(s Sport) bool {
	switch s {
	case SportSwim, SportBike, SportRun:
		return true
	}
	return false
}

// WorkoutStatus is the lifecycle state of a scheduled workout.
type WorkoutStatus string

const (
	WorkoutPlanned   WorkoutStatus = "planned"
	WorkoutCompleted WorkoutStatus = "completed"
	WorkoutSkipped   WorkoutStatus = "skipped"
	WorkoutMissed    WorkoutStatus = "missed"
)

// Priority levels for scheduled workouts. Lower value means more important.
const (
	PriorityKey      = 1 // long/key session
	PriorityQuality  = 2 // interval or tempo session
	PriorityRecovery = 3 // easy/recovery session, discarded when missed
)

// Workout is one scheduled session belonging to a plan.
type Workout struct {
	ID                string
	PlanID            string
	AthleteID         string
	Date              time.Time // calendar day, UTC midnight
	Sport             Sport
	Priority          int
	Status            WorkoutStatus
	IsCalibrationTest bool
	Steps             []Step
	IntensityScalar   float64 // 1.0 unless generated or adapted otherwise
	WasAdapted        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalDurationMin sums the step durations.
func (w *Workout) TotalDurationMin() float64 {
	var total float64
	for _, s := range w.Steps {
		total += s.DurationMin
	}
	return total
}

// HighIntensity reports whether the workout qualifies for the rescheduler's
// back-to-back safety gate: a quality-or-better session containing interval
// work or a zone-4+ step.
func (w *Workout) HighIntensity() bool {
	if w.Priority > PriorityQuality {
		return false
	}
	for _, s := range w.Steps {
		if s.Kind == StepInterval || s.Zone >= 4 {
			return true
		}
	}
	return false
}

// Day truncates t to a UTC calendar day. All workout dates are stored this
// way so date equality is a plain Equal.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
