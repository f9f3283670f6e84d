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
	// adaptationCutCount is the max number of workouts given an intensity cut.
	adaptationCutCount = 2
	// adaptationConvertCount is the max number of key workouts converted to
	// recovery sessions.
	adaptationConvertCount = 1
	// adaptationLookaheadLimit caps how many upcoming workouts are examined.
	adaptationLookaheadLimit = 14
)

// recordFatigueSignal advances the strike state machine. A strike increments
// the counter and resets the completion streak; a positive signal grows the
// streak and may self-resolve one strike. Reaching the threshold fires an
// adaptation and resets strikes to zero. The caller holds the athlete lock.
func (s *Service) recordFatigueSignal(ctx context.Context, workout *domain.Workout, strike bool, reason string, refDate time.Time) error {
	state, err := s.store.GetFatigueState(ctx, workout.AthleteID)
	if err != nil {
		return fmt.Errorf("load fatigue state: %w", err)
	}
	if state == nil {
		state = &domain.FatigueState{AthleteID: workout.AthleteID}
	}

	now := time.Now().UTC()
	if strike {
		state.Strikes++
		state.ConsecutiveCompletes = 0
		state.LastStrikeAt = &now
		observability.RecordStrike()
	} else {
		state.ConsecutiveCompletes++
		if state.ConsecutiveCompletes >= domain.ReliefStreak && state.Strikes > 0 {
			// Positive-trend relief: fatigue self-resolves one strike.
			state.Strikes--
			state.ConsecutiveCompletes = 0
		}
	}

	if state.Strikes >= domain.StrikeThreshold {
		if err := s.fireAdaptation(ctx, workout.AthleteID, state, reason, refDate); err != nil {
			return err
		}
	}

	state.UpdatedAt = now
	if err := s.store.UpsertFatigueState(ctx, *state); err != nil {
		return fmt.Errorf("save fatigue state: %w", err)
	}
	return nil
}

// fireAdaptation mutates the next scheduled workouts once the strike
// threshold is reached: up to two quality-or-better sessions get a 15%
// intensity cut and up to one key session becomes a half-duration recovery
// ride/run/swim. Strikes reset to zero and an audit entry plus an outbox
// event record the action; the push notification itself is owned by the
// external notifier.
func (s *Service) fireAdaptation(ctx context.Context, athleteID string, state *domain.FatigueState, reason string, refDate time.Time) error {
	strikesAtTrigger := state.Strikes
	now := time.Now().UTC()

	plan, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return err
	}

	var actions []string
	affected := 0
	planID := ""
	if plan != nil {
		planID = plan.ID
		upcoming, err := s.store.UpcomingWorkouts(ctx, plan.ID, domain.Day(refDate), adaptationLookaheadLimit)
		if err != nil {
			return fmt.Errorf("load upcoming workouts: %w", err)
		}

		baselines, err := s.store.GetLatestBaselines(ctx, athleteID)
		if err != nil {
			s.logger.Printf("athlete %s: baselines unavailable for adaptation: %v", athleteID, err)
			baselines = nil
		}

		cuts := 0
		converted := 0
		seen := make(map[string]bool)
		for i := range upcoming {
			w := &upcoming[i]
			if w.WasAdapted || w.Priority > domain.PriorityQuality {
				continue
			}
			if cuts >= adaptationCutCount {
				break
			}
			domain.ApplyIntensityCut(w)
			if err := s.store.UpdateWorkout(ctx, *w); err != nil {
				return fmt.Errorf("apply intensity cut: %w", err)
			}
			seen[w.ID] = true
			cuts++
			affected++
			actions = append(actions, fmt.Sprintf("intensity cut 15%%: %s %s on %s", w.Sport, w.ID, w.Date.Format("2006-01-02")))
		}
		for i := range upcoming {
			w := &upcoming[i]
			if seen[w.ID] || w.WasAdapted || w.Priority != domain.PriorityKey {
				continue
			}
			if converted >= adaptationConvertCount {
				break
			}
			domain.ConvertToRecovery(w, baselines)
			if err := s.store.UpdateWorkout(ctx, *w); err != nil {
				return fmt.Errorf("convert to recovery: %w", err)
			}
			converted++
			affected++
			actions = append(actions, fmt.Sprintf("converted to recovery: %s %s on %s", w.Sport, w.ID, w.Date.Format("2006-01-02")))
		}
	}

	entry := domain.AdaptationLog{
		ID:               uuid.NewString(),
		AthleteID:        athleteID,
		PlanID:           planID,
		Reason:           reason,
		StrikeCount:      strikesAtTrigger,
		WorkoutsAffected: affected,
		Actions:          actions,
		CreatedAt:        now,
	}
	if err := s.store.InsertAdaptationLog(ctx, entry); err != nil {
		return fmt.Errorf("insert adaptation log: %w", err)
	}

	s.recordEvent(ctx, events.TopicAdaptations, events.TypeAdaptationTriggered, athleteID, events.AdaptationTriggered{
		AthleteID:        athleteID,
		PlanID:           planID,
		Reason:           reason,
		StrikeCount:      strikesAtTrigger,
		WorkoutsAffected: affected,
		OccurredAt:       now,
	})
	observability.RecordAdaptation()

	state.Strikes = 0
	state.ConsecutiveCompletes = 0
	state.LastAdaptationAt = &now
	return nil
}
