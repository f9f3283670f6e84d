package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

// ErrIllegalTransition signals a plan lifecycle move the state machine does
// not allow.
var ErrIllegalTransition = errors.New("illegal plan lifecycle transition")

// SelectEvent moves an athlete from a maintenance plan onto race
// preparation: the maintenance plan is archived, its not-yet-occurred
// workouts are deleted, and a race-prep plan takes its place.
func (s *Service) SelectEvent(ctx context.Context, athleteID, eventID string, refDate time.Time) (*domain.Plan, error) {
	unlock := s.locks.lock(athleteID)
	defer unlock()

	current, err := s.store.GetActivePlan(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoActivePlan
	}
	if !canTransition(planState(current), StateActiveRacePrep) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, planState(current), StateActiveRacePrep)
	}

	// Today's session may still be ridden; only strictly future workouts go.
	tomorrow := domain.Day(refDate).AddDate(0, 0, 1)
	if err := s.store.DeleteWorkoutsFrom(ctx, current.ID, tomorrow); err != nil {
		return nil, fmt.Errorf("delete future workouts: %w", err)
	}

	class := domain.DistanceOlympic
	if event, err := s.store.GetEvent(ctx, eventID); err == nil && event != nil {
		class = event.DistanceClass
	}

	return s.GeneratePlan(ctx, GeneratePlanInput{
		AthleteID:     athleteID,
		EventID:       &eventID,
		DistanceClass: class,
		VolumeTier:    current.VolumeTier,
	}, refDate)
}
