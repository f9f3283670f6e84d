package api

import (
	"errors"
	"time"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

// OnboardingRequest is the payload for POST /v1/onboarding.
type OnboardingRequest struct {
	VolumeTier    int      `json:"volume_tier"`
	EventID       *string  `json:"event_id,omitempty"`
	WantsFullPlan bool     `json:"wants_full_plan"`
	Swim400Sec    *float64 `json:"swim_400_sec,omitempty"`
	Bike20MinAvgW *int     `json:"bike_20min_avg_watts,omitempty"`
	RunMileSec    *int     `json:"run_mile_sec,omitempty"`
	MaxHeartRate  *int     `json:"max_heart_rate,omitempty"`
	RestingHR     *int     `json:"resting_heart_rate,omitempty"`
}

// Validate ensures request correctness.
func (r OnboardingRequest) Validate() error {
	if r.VolumeTier < 1 || r.VolumeTier > 3 {
		return errors.New("volume_tier must be 1, 2, or 3")
	}
	if r.Swim400Sec != nil && *r.Swim400Sec <= 0 {
		return errors.New("swim_400_sec must be > 0")
	}
	if r.Bike20MinAvgW != nil && *r.Bike20MinAvgW <= 0 {
		return errors.New("bike_20min_avg_watts must be > 0")
	}
	if r.RunMileSec != nil && *r.RunMileSec <= 0 {
		return errors.New("run_mile_sec must be > 0")
	}
	if r.MaxHeartRate != nil && (*r.MaxHeartRate < 100 || *r.MaxHeartRate > 230) {
		return errors.New("max_heart_rate out of range")
	}
	return nil
}

// baselines converts raw test results supplied at onboarding into a
// baselines record using the standard derivation formulas. Nil when the
// athlete supplied nothing.
func (r OnboardingRequest) baselines() *domain.Baselines {
	if r.Swim400Sec == nil && r.Bike20MinAvgW == nil && r.RunMileSec == nil &&
		r.MaxHeartRate == nil && r.RestingHR == nil {
		return nil
	}

	b := &domain.Baselines{
		MaxHeartRate:     r.MaxHeartRate,
		RestingHeartRate: r.RestingHR,
	}
	if r.Swim400Sec != nil {
		css := domain.CalculateCSS(*r.Swim400Sec)
		b.CriticalSwimSpeed = &css
	}
	if r.Bike20MinAvgW != nil {
		ftp := domain.CalculateFTP(float64(*r.Bike20MinAvgW))
		b.FTP = &ftp
	}
	if r.RunMileSec != nil {
		pace := domain.CalculateThresholdPace(float64(*r.RunMileSec))
		b.ThresholdRunPace = &pace
	}
	return b
}

// HeartRateZoneView is one row of the athlete's heart-rate zone table.
type HeartRateZoneView struct {
	Zone   int `json:"zone"`
	MinBPM int `json:"min_bpm"`
	MaxBPM int `json:"max_bpm"`
}

// OnboardingResponse describes the response body for onboarding.
type OnboardingResponse struct {
	Plan                PlanView            `json:"plan"`
	HeartRateZones      []HeartRateZoneView `json:"heart_rate_zones,omitempty"`
	CalibrationRequired bool                `json:"calibration_required"`
}

// CalibrationResultRequest is the payload for POST /v1/calibration/results.
type CalibrationResultRequest struct {
	Test  string  `json:"test"`
	Value float64 `json:"value"`
}

// Validate ensures request correctness.
func (r CalibrationResultRequest) Validate() error {
	switch domain.TestType(r.Test) {
	case domain.TestSwim400, domain.TestBike20Min, domain.TestRunMile:
	default:
		return errors.New("test must be swim_400, bike_20min, or run_mile")
	}
	if r.Value <= 0 {
		return errors.New("value must be > 0")
	}
	return nil
}

// CalibrationResultResponse reports the derived baseline.
type CalibrationResultResponse struct {
	Test             string  `json:"test"`
	DerivedValue     float64 `json:"derived_value"`
	AllTestsComplete bool    `json:"all_tests_complete"`
}

// SelectEventRequest is the payload for POST /v1/events/select.
type SelectEventRequest struct {
	EventID string `json:"event_id"`
}

// SkipWorkoutRequest is the payload for POST /v1/workouts/{id}/skip.
type SkipWorkoutRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest is the payload for POST /v1/workouts/{id}/feedback.
type FeedbackRequest struct {
	Rating string `json:"rating"`
	RPE    *int   `json:"rpe,omitempty"`
}

// StatusResponse acknowledges a state-changing action.
type StatusResponse struct {
	Status string `json:"status"`
}

// PlanView exposes plan details.
type PlanView struct {
	PlanID     string     `json:"plan_id"`
	AthleteID  string     `json:"athlete_id"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	Phase      string     `json:"phase"`
	VolumeTier int        `json:"volume_tier"`
	StartDate  time.Time  `json:"start_date"`
	EventID    *string    `json:"event_id,omitempty"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	TotalWeeks *int       `json:"total_weeks,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// WorkoutView exposes one scheduled workout with its computed targets.
type WorkoutView struct {
	WorkoutID         string        `json:"workout_id"`
	Date              time.Time     `json:"date"`
	Sport             string        `json:"sport"`
	Priority          int           `json:"priority"`
	Status            string        `json:"status"`
	IsCalibrationTest bool          `json:"is_calibration_test,omitempty"`
	Steps             []domain.Step `json:"steps"`
	DurationMin       float64       `json:"duration_min"`
	WasAdapted        bool          `json:"was_adapted,omitempty"`
}

// ActivePlanResponse packages a plan with its scheduled workouts.
type ActivePlanResponse struct {
	Plan     PlanView      `json:"plan"`
	Workouts []WorkoutView `json:"workouts,omitempty"`
}

func toPlanView(p domain.Plan) PlanView {
	return PlanView{
		PlanID:     p.ID,
		AthleteID:  p.AthleteID,
		Kind:       string(p.Kind),
		Status:     string(p.Status),
		Phase:      string(p.Phase),
		VolumeTier: p.VolumeTier,
		StartDate:  p.StartDate,
		EventID:    p.EventID,
		EventDate:  p.EventDate,
		TotalWeeks: p.TotalWeeks,
		CreatedAt:  p.CreatedAt,
	}
}

func toWorkoutView(w domain.Workout) WorkoutView {
	return WorkoutView{
		WorkoutID:         w.ID,
		Date:              w.Date,
		Sport:             string(w.Sport),
		Priority:          w.Priority,
		Status:            string(w.Status),
		IsCalibrationTest: w.IsCalibrationTest,
		Steps:             w.Steps,
		DurationMin:       w.TotalDurationMin(),
		WasAdapted:        w.WasAdapted,
	}
}
