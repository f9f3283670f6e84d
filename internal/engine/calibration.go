package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/events"
	"github.com/nicholas-won/TriOne-sub000/internal/observability"
)

// calibrationDay describes one day of the fixed calibration week.
type calibrationDay struct {
	sport domain.Sport
	test  bool
	steps []domain.TemplateStep
	rest  bool
}

// calibrationWeek is the fixed 7-day test protocol: swim time trial on day
// one, bike power test on day three, run time trial on day five, one light
// recovery spin on day six, rest otherwise.
func calibrationWeek() [7]calibrationDay {
	return [7]calibrationDay{
		{sport: domain.SportSwim, test: true, steps: []domain.TemplateStep{
			{Kind: domain.StepWarmup, DurationMin: 10, Zone: 1},
			{Kind: domain.StepInterval, DurationMin: 8, Zone: 6}, // max-effort 400m
			{Kind: domain.StepRest, DurationMin: 5},
			{Kind: domain.StepCooldown, DurationMin: 10, Zone: 1},
		}},
		{rest: true},
		{sport: domain.SportBike, test: true, steps: []domain.TemplateStep{
			{Kind: domain.StepWarmup, DurationMin: 15, Zone: 1},
			{Kind: domain.StepInterval, DurationMin: 5, Zone: 5}, // primer
			{Kind: domain.StepRest, DurationMin: 5},
			{Kind: domain.StepMain, DurationMin: 20, Zone: 6}, // 20-minute max effort
			{Kind: domain.StepCooldown, DurationMin: 10, Zone: 1},
		}},
		{rest: true},
		{sport: domain.SportRun, test: true, steps: []domain.TemplateStep{
			{Kind: domain.StepWarmup, DurationMin: 10, Zone: 1},
			{Kind: domain.StepInterval, DurationMin: 5, Zone: 4}, // strides
			{Kind: domain.StepRest, DurationMin: 5},
			{Kind: domain.StepInterval, DurationMin: 8, Zone: 6}, // max-effort mile
			{Kind: domain.StepCooldown, DurationMin: 10, Zone: 1},
		}},
		{sport: domain.SportBike, steps: []domain.TemplateStep{
			{Kind: domain.StepWarmup, DurationMin: 5, Zone: 1},
			{Kind: domain.StepMain, DurationMin: 25, Zone: 1},
		}},
		{rest: true},
	}
}

// generateCalibrationWeek archives any prior active plan and schedules the
// fixed one-week test protocol.
func (s *Service) generateCalibrationWeek(ctx context.Context, in OnboardingInput, refDate time.Time) (*domain.Plan, error) {
	if _, err := s.archiveActivePlan(ctx, in.AthleteID, "replaced by calibration week"); err != nil {
		return nil, err
	}

	weeks := 1
	startDate := domain.Day(refDate)
	plan := domain.Plan{
		ID:         uuid.NewString(),
		AthleteID:  in.AthleteID,
		EventID:    in.EventID,
		StartDate:  startDate,
		Kind:       domain.PlanCalibration,
		Status:     domain.PlanActive,
		Phase:      domain.PhaseBase,
		VolumeTier: in.VolumeTier,
		TotalWeeks: &weeks,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create calibration plan: %w", err)
	}

	now := time.Now().UTC()
	var workouts []domain.Workout
	for day, spec := range calibrationWeek() {
		if spec.rest {
			continue
		}
		// Test days carry no targets: the athlete is measuring, not chasing
		// a number. Durations are taken verbatim from the protocol.
		steps := make([]domain.Step, 0, len(spec.steps))
		for _, ts := range spec.steps {
			zone := ts.Zone
			if zone == 0 {
				zone = 1
			}
			steps = append(steps, domain.Step{Kind: ts.Kind, DurationMin: ts.DurationMin, Zone: zone})
		}
		priority := domain.PriorityKey
		if !spec.test {
			priority = domain.PriorityRecovery
		}
		workouts = append(workouts, domain.Workout{
			ID:                uuid.NewString(),
			PlanID:            plan.ID,
			AthleteID:         in.AthleteID,
			Date:              startDate.AddDate(0, 0, day),
			Sport:             spec.sport,
			Priority:          priority,
			Status:            domain.WorkoutPlanned,
			IsCalibrationTest: spec.test,
			Steps:             steps,
			IntensityScalar:   1.0,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	s.insertWorkoutBatch(ctx, plan.ID, workouts)

	s.recordEvent(ctx, events.TopicPlans, events.TypePlanCreated, in.AthleteID, events.PlanCreated{
		PlanID:     plan.ID,
		AthleteID:  in.AthleteID,
		Kind:       string(plan.Kind),
		StartDate:  plan.StartDate,
		TotalWeeks: plan.TotalWeeks,
		OccurredAt: now,
	})
	observability.RecordPlanGenerated(string(plan.Kind))
	return &plan, nil
}

// CalibrationResult reports the derived baseline value and whether the test
// set is now complete.
type CalibrationResult struct {
	Test             domain.TestType
	Value            float64
	AllTestsComplete bool
}

// ProcessCalibrationResult ingests one field-test result: it derives the
// baseline with the biometric formula and appends a new baselines row. The
// submission that completes the set also archives the calibration plan and
// chains into the real plan generator. This is the single place the engine
// chains two generators, guarded by the lifecycle state machine.
func (s *Service) ProcessCalibrationResult(ctx context.Context, athleteID string, test domain.TestType, raw float64, refDate time.Time) (*CalibrationResult, error) {
	unlock := s.locks.lock(athleteID)
	defer unlock()

	current, err := s.store.GetLatestBaselines(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}

	next := domain.Baselines{AthleteID: athleteID, RecordedAt: time.Now().UTC()}
	if current != nil {
		next = *current
		next.RecordedAt = time.Now().UTC()
	}
	value, err := domain.ApplyTestResult(&next, test, raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveBaselines(ctx, next); err != nil {
		return nil, fmt.Errorf("save baselines: %w", err)
	}
	observability.RecordCalibrationResult(string(test))

	result := &CalibrationResult{Test: test, Value: value, AllTestsComplete: next.Complete()}
	if !result.AllTestsComplete {
		return result, nil
	}

	plan, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	target := StateActiveMaintenance
	var eventID *string
	tier := 2
	if plan != nil {
		tier = plan.VolumeTier
		eventID = plan.EventID
		if eventID != nil {
			target = StateActiveRacePrep
		}
	}
	if !canTransition(planState(plan), target) {
		// Already on a real plan; record completion but do not regenerate.
		s.logger.Printf("athlete %s: calibration complete but plan state %s does not transition to %s", athleteID, planState(plan), target)
		return result, nil
	}

	s.recordEvent(ctx, events.TopicPlans, events.TypeCalibrationCompleted, athleteID, events.CalibrationCompleted{
		AthleteID:  athleteID,
		OccurredAt: time.Now().UTC(),
	})

	if target == StateActiveRacePrep {
		_, err = s.GeneratePlan(ctx, GeneratePlanInput{AthleteID: athleteID, EventID: eventID, VolumeTier: tier}, refDate)
	} else {
		_, err = s.GenerateMaintenancePlan(ctx, athleteID, tier, refDate)
	}
	if err != nil {
		return nil, fmt.Errorf("chain plan generation: %w", err)
	}
	return result, nil
}
