package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

func TestSelectEventReplacesMaintenancePlan(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))
	store.SeedEvents(domain.Event{
		ID:            "race-1",
		Name:          "Lakeside Half",
		Date:          testRefDate.AddDate(0, 0, 16*7),
		DistanceClass: domain.DistanceHalf,
	})

	maintenance, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)

	plan, err := svc.SelectEvent(ctx, "ath-1", "race-1", testRefDate)
	require.NoError(t, err)
	require.Equal(t, domain.PlanRacePrep, plan.Kind)
	require.NotNil(t, plan.EventID)
	require.Equal(t, "race-1", *plan.EventID)

	archived, ok := store.Plan(maintenance.ID)
	require.True(t, ok)
	require.Equal(t, domain.PlanArchived, archived.Status)

	// Future maintenance workouts were cleaned up; nothing after today
	// belongs to the old plan.
	tomorrow := domain.Day(testRefDate).AddDate(0, 0, 1)
	leftovers, err := store.QueryWorkouts(ctx, maintenance.ID, tomorrow, tomorrow.AddDate(0, 0, 60))
	require.NoError(t, err)
	require.Empty(t, leftovers)

	// Today's session on the old plan survives.
	today, err := store.QueryWorkouts(ctx, maintenance.ID, domain.Day(testRefDate), domain.Day(testRefDate))
	require.NoError(t, err)
	require.Len(t, today, 1)
}

func TestSelectEventRequiresActivePlan(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SelectEvent(context.Background(), "ath-1", "race-1", testRefDate)
	require.ErrorIs(t, err, ErrNoActivePlan)
}

func TestPlanStateTransitions(t *testing.T) {
	require.True(t, canTransition(StateNone, StateCalibrating))
	require.True(t, canTransition(StateCalibrating, StateActiveMaintenance))
	require.True(t, canTransition(StateCalibrating, StateActiveRacePrep))
	require.True(t, canTransition(StateActiveMaintenance, StateActiveRacePrep))
	require.True(t, canTransition(StateActiveRacePrep, StateActiveRacePrep))

	require.False(t, canTransition(StateActiveMaintenance, StateActiveMaintenance))
	require.False(t, canTransition(StateActiveRacePrep, StateCalibrating))
	require.False(t, canTransition(StateArchived, StateActiveRacePrep))
}
