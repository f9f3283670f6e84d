package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/observability"
)

// bumpSearchDays is how far ahead a bumped workout looks for a rest slot.
const bumpSearchDays = 3

// RescheduleStats summarizes one athlete's rescheduling pass.
type RescheduleStats struct {
	Examined  int
	Moved     int
	Bumped    int
	Discarded int
}

// ResolveMissedWorkouts runs the daily priority rescheduler for one athlete:
// every workout still planned on the day before refDate is resolved against
// today's schedule through the three gates. The pass is greedy, single-pass
// and date-local; each missed workout is processed independently, writes
// within the athlete stay sequential.
func (s *Service) ResolveMissedWorkouts(ctx context.Context, athleteID string, refDate time.Time) (RescheduleStats, error) {
	var stats RescheduleStats

	unlock := s.locks.lock(athleteID)
	defer unlock()

	plan, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return stats, err
	}
	if plan == nil {
		return stats, nil
	}

	today := domain.Day(refDate)
	yesterday := today.AddDate(0, 0, -1)
	missed, err := s.store.QueryWorkoutsByStatus(ctx, plan.ID, domain.WorkoutPlanned, yesterday, yesterday)
	if err != nil {
		return stats, fmt.Errorf("query missed workouts: %w", err)
	}

	for i := range missed {
		stats.Examined++
		outcome, err := s.resolveOne(ctx, plan.ID, &missed[i], today)
		if err != nil {
			return stats, err
		}
		switch outcome {
		case outcomeMoved:
			stats.Moved++
		case outcomeBumped:
			stats.Moved++
			stats.Bumped++
		case outcomeDiscarded:
			stats.Discarded++
		}
		observability.RecordReschedule(string(outcome))
	}
	return stats, nil
}

type rescheduleOutcome string

const (
	outcomeMoved     rescheduleOutcome = "moved"
	outcomeBumped    rescheduleOutcome = "moved_with_bump"
	outcomeDiscarded rescheduleOutcome = "discarded"
)

func (s *Service) resolveOne(ctx context.Context, planID string, missed *domain.Workout, today time.Time) (rescheduleOutcome, error) {
	// Gate 1: low-priority sessions are never rescheduled.
	if missed.Priority >= domain.PriorityRecovery {
		return outcomeDiscarded, s.markMissed(ctx, missed)
	}

	todays, err := s.store.QueryWorkoutsByStatus(ctx, planID, domain.WorkoutPlanned, today, today)
	if err != nil {
		return "", fmt.Errorf("query today's workouts: %w", err)
	}
	occupant := pickOccupant(todays, missed.Sport)

	if occupant == nil {
		// Empty day: the missed session simply moves onto it.
		return outcomeMoved, s.moveWorkout(ctx, missed, today)
	}

	// Gate 2: never stack two high-intensity sessions back to back.
	if missed.HighIntensity() && occupant.HighIntensity() {
		return outcomeDiscarded, s.markMissed(ctx, missed)
	}

	// Gate 3: a strictly more important missed session displaces today's.
	if missed.Priority < occupant.Priority {
		if err := s.moveWorkout(ctx, missed, today); err != nil {
			return "", err
		}
		if err := s.bumpWorkout(ctx, planID, occupant, today); err != nil {
			return "", err
		}
		return outcomeBumped, nil
	}

	return outcomeDiscarded, s.markMissed(ctx, missed)
}

// pickOccupant chooses the workout the missed session is compared against:
// the same-sport session when one exists, otherwise the most important one.
func pickOccupant(todays []domain.Workout, sport domain.Sport) *domain.Workout {
	var best *domain.Workout
	for i := range todays {
		w := &todays[i]
		if w.Sport == sport {
			return w
		}
		if best == nil || w.Priority < best.Priority {
			best = w
		}
	}
	return best
}

// bumpWorkout relocates a displaced workout into the first open rest slot
// within the search window. With no slot available, a recovery-priority
// workout is discarded while a higher-priority one is left planned in place
// for the next day's run to re-evaluate.
func (s *Service) bumpWorkout(ctx context.Context, planID string, bumped *domain.Workout, today time.Time) error {
	for offset := 1; offset <= bumpSearchDays; offset++ {
		candidate := today.AddDate(0, 0, offset)
		occupants, err := s.store.QueryWorkoutsByStatus(ctx, planID, domain.WorkoutPlanned, candidate, candidate)
		if err != nil {
			return fmt.Errorf("bump search: %w", err)
		}
		if len(occupants) == 0 {
			return s.moveWorkout(ctx, bumped, candidate)
		}
	}
	if bumped.Priority >= domain.PriorityRecovery {
		return s.markMissed(ctx, bumped)
	}
	return nil
}

func (s *Service) moveWorkout(ctx context.Context, w *domain.Workout, date time.Time) error {
	w.Date = date
	w.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateWorkout(ctx, *w); err != nil {
		return fmt.Errorf("move workout %s: %w", w.ID, err)
	}
	return nil
}

func (s *Service) markMissed(ctx context.Context, w *domain.Workout) error {
	w.Status = domain.WorkoutMissed
	w.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateWorkout(ctx, *w); err != nil {
		return fmt.Errorf("mark workout %s missed: %w", w.ID, err)
	}
	return nil
}
