// Package engine implements the training-plan generation and adaptation
// engine: periodized plan construction, calibration, maintenance scheduling,
// the priority rescheduler, and the fatigue state machine. The engine is
// stateless between invocations; all durable state lives behind the
// domain.Store contract. Every entry point takes an explicit reference date
// so scheduling is deterministic under test.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/events"
	"github.com/nicholas-won/TriOne-sub000/internal/observability"
)

var (
	// ErrInvalidVolumeTier rejects tiers outside 1..3.
	ErrInvalidVolumeTier = errors.New("volume tier must be between 1 and 3")
	// ErrInvalidRPE rejects perceived-exertion scores outside 1..10.
	ErrInvalidRPE = errors.New("rpe must be between 1 and 10")
	// ErrInvalidSkipReason rejects unknown skip reasons.
	ErrInvalidSkipReason = errors.New("unknown skip reason")
	// ErrNoActivePlan indicates the athlete has no active plan to act on.
	ErrNoActivePlan = errors.New("athlete has no active plan")
)

// Service is the engine facade. Concurrent calls for different athletes are
// independent; calls for the same athlete serialize on a per-athlete lock
// because strike counts and plan archival are read-modify-write sequences.
type Service struct {
	store  domain.Store
	locks  *athleteLocks
	logger *log.Logger
}

// NewService constructs the engine over a store.
func NewService(store domain.Store) *Service {
	return &Service{
		store:  store,
		locks:  newAthleteLocks(),
		logger: log.New(log.Writer(), "[engine] ", log.LstdFlags),
	}
}

// SetLogger overrides the engine logger.
func (s *Service) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// OnboardingInput captures what the athlete supplied during onboarding.
type OnboardingInput struct {
	AthleteID     string
	VolumeTier    int
	EventID       *string
	WantsFullPlan bool // race-prep requested even without a selected event
	Baselines     *domain.Baselines
}

// OnboardingResult reports the generated plan, the athlete's heart-rate
// zones, and whether calibration is still required.
type OnboardingResult struct {
	Plan                domain.Plan
	HeartRateZones      []domain.HeartRateZone
	CalibrationRequired bool
}

// Onboard produces the athlete's first plan. With complete baselines and an
// event (or an explicit full-plan request) it builds a race-prep plan; with
// complete baselines and no event, a maintenance plan; otherwise a
// calibration week.
func (s *Service) Onboard(ctx context.Context, in OnboardingInput, refDate time.Time) (*OnboardingResult, error) {
	if in.AthleteID == "" {
		return nil, errors.New("athlete id is required")
	}
	if in.VolumeTier < 1 || in.VolumeTier > 3 {
		return nil, ErrInvalidVolumeTier
	}

	unlock := s.locks.lock(in.AthleteID)
	defer unlock()

	if in.Baselines != nil {
		b := *in.Baselines
		b.AthleteID = in.AthleteID
		b.RecordedAt = time.Now().UTC()
		if err := s.store.SaveBaselines(ctx, b); err != nil {
			return nil, fmt.Errorf("save baselines: %w", err)
		}
	}

	baselines, err := s.store.GetLatestBaselines(ctx, in.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}

	var plan *domain.Plan
	switch {
	case !baselines.Complete():
		plan, err = s.generateCalibrationWeek(ctx, in, refDate)
	case in.EventID != nil || in.WantsFullPlan:
		plan, err = s.GeneratePlan(ctx, GeneratePlanInput{
			AthleteID:  in.AthleteID,
			EventID:    in.EventID,
			VolumeTier: in.VolumeTier,
		}, refDate)
	default:
		plan, err = s.GenerateMaintenancePlan(ctx, in.AthleteID, in.VolumeTier, refDate)
	}
	if err != nil {
		return nil, err
	}

	result := &OnboardingResult{
		Plan:                *plan,
		CalibrationRequired: !baselines.Complete(),
	}
	if baselines != nil && baselines.MaxHeartRate != nil {
		result.HeartRateZones = domain.HeartRateZones(*baselines.MaxHeartRate)
	}
	return result, nil
}

// CompleteWorkout marks a workout done and feeds the positive path of the
// fatigue state machine.
func (s *Service) CompleteWorkout(ctx context.Context, workoutID string, refDate time.Time) error {
	workout, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(workout.AthleteID)
	defer unlock()

	workout.Status = domain.WorkoutCompleted
	workout.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateWorkout(ctx, *workout); err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	return s.recordFatigueSignal(ctx, workout, false, "workout completed", refDate)
}

// SkipWorkout marks a workout skipped. Fatigue-related reasons count as a
// strike; logistical reasons do not.
func (s *Service) SkipWorkout(ctx context.Context, workoutID string, reason domain.SkipReason, refDate time.Time) error {
	switch reason {
	case domain.SkipTooTired, domain.SkipSick, domain.SkipNoTime, domain.SkipOther:
	default:
		return ErrInvalidSkipReason
	}

	workout, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(workout.AthleteID)
	defer unlock()

	workout.Status = domain.WorkoutSkipped
	workout.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateWorkout(ctx, *workout); err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	if reason.FatigueSignal() {
		return s.recordFatigueSignal(ctx, workout, true, "skipped: "+string(reason), refDate)
	}
	return nil
}

// SubmitFeedback stores post-workout feedback and runs the strike rules: a
// harder-than-expected rating or an RPE more than two over target counts as
// a strike, anything else as a positive signal.
func (s *Service) SubmitFeedback(ctx context.Context, workoutID string, rating domain.Rating, rpe *int, refDate time.Time) error {
	if err := domain.ValidateRating(rating); err != nil {
		return err
	}
	if rpe != nil && (*rpe < 1 || *rpe > 10) {
		return ErrInvalidRPE
	}

	workout, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(workout.AthleteID)
	defer unlock()

	feedback := domain.Feedback{
		ID:        uuid.NewString(),
		WorkoutID: workout.ID,
		AthleteID: workout.AthleteID,
		Rating:    rating,
		RPE:       rpe,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertFeedback(ctx, feedback); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	strike := rating == domain.RatingHarder
	reason := "feedback: rating harder"
	if !strike && rpe != nil && *rpe > domain.TargetRPE(workout)+2 {
		strike = true
		reason = fmt.Sprintf("feedback: rpe %d over target %d", *rpe, domain.TargetRPE(workout))
	}
	return s.recordFatigueSignal(ctx, workout, strike, reason, refDate)
}

// ActivePlanView bundles a plan with its scheduled workouts for read paths.
type ActivePlanView struct {
	Plan     domain.Plan
	Workouts []domain.Workout
}

// GetActivePlan returns the athlete's active plan and its workouts in the
// requested window.
func (s *Service) GetActivePlan(ctx context.Context, athleteID string, from, to time.Time) (*ActivePlanView, error) {
	plan, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNoActivePlan
	}
	workouts, err := s.store.QueryWorkouts(ctx, plan.ID, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, err
	}
	return &ActivePlanView{Plan: *plan, Workouts: workouts}, nil
}

// recordEvent marshals and stores an outbox event. Delivery failures must
// not fail the triggering operation, so errors are logged and swallowed.
func (s *Service) recordEvent(ctx context.Context, topic, eventType, partitionKey string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Printf("marshal %s event: %v", eventType, err)
		return
	}
	event := domain.OutboxEvent{
		EventType:    eventType,
		Topic:        topic,
		PartitionKey: partitionKey,
		Payload:      body,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.RecordEvent(ctx, event); err != nil {
		s.logger.Printf("record %s event: %v", eventType, err)
	}
}

// archiveActivePlan retires the athlete's current active plan, if any, and
// emits the archival event. Returns the archived plan.
func (s *Service) archiveActivePlan(ctx context.Context, athleteID, reason string) (*domain.Plan, error) {
	current, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if err := s.store.ArchivePlan(ctx, current.ID); err != nil {
		return nil, fmt.Errorf("archive plan %s: %w", current.ID, err)
	}
	s.recordEvent(ctx, events.TopicPlans, events.TypePlanArchived, athleteID, events.PlanArchived{
		PlanID:     current.ID,
		AthleteID:  athleteID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
	observability.RecordPlanArchived()
	return current, nil
}
