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

const (
	// maintenanceIntensity is the fixed intensity modifier for all
	// maintenance workouts.
	maintenanceIntensity = 0.85
	// maintenanceBatchWeeks is how many weeks each generation pass appends.
	maintenanceBatchWeeks = 2
	// maintenanceBufferDays is the minimum scheduling horizon kept ahead of
	// the reference date.
	maintenanceBufferDays = 14
)

// GenerateMaintenancePlan starts a rolling, event-less plan: a repeating
// four-week pattern generated two weeks at a time, topped up by the daily
// buffer check so the plan is logically infinite with bounded storage.
func (s *Service) GenerateMaintenancePlan(ctx context.Context, athleteID string, volumeTier int, refDate time.Time) (*domain.Plan, error) {
	if volumeTier < 1 || volumeTier > 3 {
		return nil, ErrInvalidVolumeTier
	}

	if _, err := s.archiveActivePlan(ctx, athleteID, "replaced by maintenance plan"); err != nil {
		return nil, err
	}

	plan := domain.Plan{
		ID:         uuid.NewString(),
		AthleteID:  athleteID,
		StartDate:  domain.Day(refDate),
		Kind:       domain.PlanMaintenance,
		Status:     domain.PlanActive,
		Phase:      domain.PhaseBase,
		VolumeTier: volumeTier,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create maintenance plan: %w", err)
	}

	if err := s.appendMaintenanceWeeks(ctx, &plan, 0, maintenanceBatchWeeks); err != nil {
		// Batch failure is recoverable: the buffer check regenerates.
		s.logger.Printf("plan %s: initial maintenance batch failed: %v", plan.ID, err)
	}

	s.recordEvent(ctx, events.TopicPlans, events.TypePlanCreated, athleteID, events.PlanCreated{
		PlanID:     plan.ID,
		AthleteID:  athleteID,
		Kind:       string(plan.Kind),
		StartDate:  plan.StartDate,
		OccurredAt: time.Now().UTC(),
	})
	observability.RecordPlanGenerated(string(plan.Kind))
	return &plan, nil
}

// appendMaintenanceWeeks generates numWeeks starting at the given week index
// of the plan's rolling cycle.
func (s *Service) appendMaintenanceWeeks(ctx context.Context, plan *domain.Plan, startWeek, numWeeks int) error {
	baselines, err := s.store.GetLatestBaselines(ctx, plan.AthleteID)
	if err != nil {
		s.logger.Printf("athlete %s: baselines unavailable for maintenance batch: %v", plan.AthleteID, err)
		baselines = nil
	}

	var workouts []domain.Workout
	for week := startWeek; week < startWeek+numWeeks; week++ {
		zone, volumeFactor := domain.MaintenanceWeekFocus(week)
		focus := domain.FocusEndurance
		if zone >= 3 {
			focus = domain.FocusTempo
		}
		weekStart := plan.StartDate.AddDate(0, 0, week*7)
		pattern := domain.WeekPattern(plan.VolumeTier, domain.PhaseBuild)
		for day := 0; day < 7; day++ {
			slot := pattern[day]
			if slot.Rest() {
				continue
			}
			slot.Focus = focus
			if slot.Priority == domain.PriorityQuality && focus == domain.FocusEndurance {
				slot.Priority = domain.PriorityRecovery
			}
			w := s.buildWorkout(ctx, plan, slot, domain.PhaseBuild, weekStart.AddDate(0, 0, day), baselines, maintenanceIntensity, volumeFactor)
			workouts = append(workouts, w)
		}
	}

	if len(workouts) == 0 {
		return nil
	}
	if err := s.store.InsertWorkouts(ctx, workouts); err != nil {
		return fmt.Errorf("insert maintenance batch: %w", err)
	}
	observability.RecordWorkoutsGenerated(len(workouts))
	return nil
}

// CheckAndGenerateMaintenanceWorkouts scans all active maintenance plans and
// tops up any whose furthest-scheduled workout is under the buffer horizon.
// Failures on one plan are logged and do not stop the scan.
func (s *Service) CheckAndGenerateMaintenanceWorkouts(ctx context.Context, refDate time.Time) error {
	kind := domain.PlanMaintenance
	plans, err := s.store.ListActivePlans(ctx, &kind)
	if err != nil {
		return fmt.Errorf("list maintenance plans: %w", err)
	}

	horizon := domain.Day(refDate).AddDate(0, 0, maintenanceBufferDays)
	for i := range plans {
		plan := plans[i]
		if err := s.topUpMaintenancePlan(ctx, &plan, horizon); err != nil {
			s.logger.Printf("plan %s: maintenance top-up failed: %v", plan.ID, err)
		}
	}
	return nil
}

func (s *Service) topUpMaintenancePlan(ctx context.Context, plan *domain.Plan, horizon time.Time) error {
	unlock := s.locks.lock(plan.AthleteID)
	defer unlock()

	latest, err := s.store.LatestWorkoutDate(ctx, plan.ID)
	if err != nil {
		return err
	}
	if !latest.Before(horizon) {
		return nil
	}

	// Resume at the week after the last scheduled one (week 0 when the plan
	// has no workouts at all) and append batches until the buffer holds.
	nextWeek := 0
	if !latest.IsZero() {
		nextWeek = int(domain.Day(latest).Sub(plan.StartDate).Hours()/(24*7)) + 1
	}
	for {
		if err := s.appendMaintenanceWeeks(ctx, plan, nextWeek, maintenanceBatchWeeks); err != nil {
			return err
		}
		nextWeek += maintenanceBatchWeeks
		lastDay := plan.StartDate.AddDate(0, 0, nextWeek*7-1)
		if !lastDay.Before(horizon) {
			break
		}
	}
	observability.RecordMaintenanceTopUp()
	return nil
}
