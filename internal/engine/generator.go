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

// defaultEventHorizonDays is the placeholder horizon used when a full plan is
// requested without a selected event.
const defaultEventHorizonDays = 84

// GeneratePlanInput parameterizes race-prep plan generation.
type GeneratePlanInput struct {
	AthleteID     string
	EventID       *string
	DistanceClass domain.DistanceClass
	VolumeTier    int
}

// GeneratePlan builds a periodized race-prep plan: it resolves the event
// horizon, splits it into phases, archives any prior active plan, and
// expands each week into concrete workouts. A missing event or template
// degrades to a safe default rather than failing; a partial workout batch
// failure is logged and left for regeneration.
func (s *Service) GeneratePlan(ctx context.Context, in GeneratePlanInput, refDate time.Time) (*domain.Plan, error) {
	if in.VolumeTier < 1 || in.VolumeTier > 3 {
		return nil, ErrInvalidVolumeTier
	}

	startDate := domain.Day(refDate)
	eventDate := s.resolveEventDate(ctx, in.EventID, in.DistanceClass, startDate)
	weeksToEvent := int(eventDate.Sub(startDate).Hours() / (24 * 7))
	phases := domain.DistributePhases(weeksToEvent)
	totalWeeks := domain.TotalWeeks(phases)

	if _, err := s.archiveActivePlan(ctx, in.AthleteID, "replaced by race-prep plan"); err != nil {
		return nil, err
	}

	plan := domain.Plan{
		ID:         uuid.NewString(),
		AthleteID:  in.AthleteID,
		EventID:    in.EventID,
		EventDate:  &eventDate,
		StartDate:  startDate,
		Kind:       domain.PlanRacePrep,
		Status:     domain.PlanActive,
		Phase:      phases[0].Phase,
		VolumeTier: in.VolumeTier,
		TotalWeeks: &totalWeeks,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	baselines, err := s.store.GetLatestBaselines(ctx, in.AthleteID)
	if err != nil {
		s.logger.Printf("athlete %s: baselines unavailable, generating unscaled targets: %v", in.AthleteID, err)
		baselines = nil
	}

	workouts := s.expandPhases(ctx, &plan, phases, baselines, 1.0)
	s.insertWorkoutBatch(ctx, plan.ID, workouts)

	s.recordEvent(ctx, events.TopicPlans, events.TypePlanCreated, in.AthleteID, events.PlanCreated{
		PlanID:     plan.ID,
		AthleteID:  in.AthleteID,
		Kind:       string(plan.Kind),
		StartDate:  plan.StartDate,
		EventDate:  plan.EventDate,
		TotalWeeks: plan.TotalWeeks,
		OccurredAt: time.Now().UTC(),
	})
	observability.RecordPlanGenerated(string(plan.Kind))
	return &plan, nil
}

// resolveEventDate looks the event up in the catalog, falling back to a
// distance-appropriate placeholder horizon when the event is unknown. A
// degraded schedule beats no schedule.
func (s *Service) resolveEventDate(ctx context.Context, eventID *string, class domain.DistanceClass, startDate time.Time) time.Time {
	fallback := startDate.AddDate(0, 0, horizonDays(class))
	if eventID == nil {
		return fallback
	}
	event, err := s.store.GetEvent(ctx, *eventID)
	if err != nil || event == nil {
		s.logger.Printf("event %s not found, using default horizon: %v", *eventID, err)
		return fallback
	}
	date := domain.Day(event.Date)
	if !date.After(startDate) {
		s.logger.Printf("event %s is not in the future, using default horizon", *eventID)
		return fallback
	}
	return date
}

// expandPhases walks the phase distribution week by week and produces the
// full workout list for the plan.
func (s *Service) expandPhases(ctx context.Context, plan *domain.Plan, phases []domain.PhaseWeeks, baselines *domain.Baselines, intensity float64) []domain.Workout {
	var workouts []domain.Workout
	weekStart := plan.StartDate

	for _, pw := range phases {
		for week := 0; week < pw.Weeks; week++ {
			pattern := domain.WeekPattern(plan.VolumeTier, pw.Phase)
			for day := 0; day < 7; day++ {
				slot := pattern[day]
				if slot.Rest() {
					continue
				}
				date := weekStart.AddDate(0, 0, day)
				workouts = append(workouts, s.buildWorkout(ctx, plan, slot, pw.Phase, date, baselines, intensity, 1.0))
			}
			weekStart = weekStart.AddDate(0, 0, 7)
		}
	}
	return workouts
}

// buildWorkout selects the closest-difficulty template for the slot and
// computes concrete targets. volumeFactor scales durations after target
// calculation (used by maintenance recovery weeks).
func (s *Service) buildWorkout(ctx context.Context, plan *domain.Plan, slot domain.DaySlot, phase domain.Phase, date time.Time, baselines *domain.Baselines, intensity, volumeFactor float64) domain.Workout {
	template := s.selectTemplate(ctx, slot.Sport, slot.Focus)
	steps := domain.CalculateTargets(slot.Sport, template, baselines, phase, slot.Priority, intensity)
	if volumeFactor != 1.0 {
		domain.ScaleDurations(steps, volumeFactor)
	}

	now := time.Now().UTC()
	return domain.Workout{
		ID:              uuid.NewString(),
		PlanID:          plan.ID,
		AthleteID:       plan.AthleteID,
		Date:            date,
		Sport:           slot.Sport,
		Priority:        slot.Priority,
		Status:          domain.WorkoutPlanned,
		Steps:           steps,
		IntensityScalar: intensity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// selectTemplate picks the template whose difficulty tier is numerically
// closest to the focus target. With no template family for the sport it
// fabricates a three-step placeholder instead of failing.
func (s *Service) selectTemplate(ctx context.Context, sport domain.Sport, focus domain.Focus) []domain.TemplateStep {
	templates, err := s.store.ListTemplates(ctx, sport)
	if err != nil {
		s.logger.Printf("template catalog unavailable for %s: %v", sport, err)
		templates = nil
	}
	if len(templates) == 0 {
		return placeholderSteps(focus)
	}

	target := focus.TargetTier()
	best := templates[0]
	bestDelta := abs(best.Difficulty - target)
	for _, t := range templates[1:] {
		if delta := abs(t.Difficulty - target); delta < bestDelta {
			best, bestDelta = t, delta
		}
	}
	return best.Steps
}

// placeholderSteps is the warmup/main/cooldown fallback used when the
// catalog has no templates for a sport.
func placeholderSteps(focus domain.Focus) []domain.TemplateStep {
	return []domain.TemplateStep{
		{Kind: domain.StepWarmup, DurationMin: 10, Zone: 1},
		{Kind: domain.StepMain, DurationMin: 30, Zone: focus.Zone()},
		{Kind: domain.StepCooldown, DurationMin: 10, Zone: 1},
	}
}

// insertWorkoutBatch persists generated workouts. A failed batch is logged
// and not rolled back: the plan row stays committed and a retry can
// regenerate the missing workouts.
func (s *Service) insertWorkoutBatch(ctx context.Context, planID string, workouts []domain.Workout) {
	if len(workouts) == 0 {
		return
	}
	if err := s.store.InsertWorkouts(ctx, workouts); err != nil {
		s.logger.Printf("plan %s: workout batch insert failed (will regenerate on retry): %v", planID, err)
		return
	}
	observability.RecordWorkoutsGenerated(len(workouts))
}

// horizonDays picks the placeholder event horizon by race distance. Longer
// races get longer default preparation windows.
func horizonDays(class domain.DistanceClass) int {
	switch class {
	case domain.DistanceSprint:
		return 56
	case domain.DistanceHalf:
		return 112
	case domain.DistanceFull:
		return 140
	default:
		return defaultEventHorizonDays
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
