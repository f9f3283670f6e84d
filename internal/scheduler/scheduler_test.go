package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/engine"
	"github.com/nicholas-won/TriOne-sub000/internal/persistence/memory"
)

func TestRunDailyPassReschedulesAndTopsUp(t *testing.T) {
	store := memory.NewStore()
	service := engine.NewService(store)
	sched := New(service, store, 4, 10*time.Second)

	ctx := context.Background()
	refDate := time.Date(2026, time.March, 16, 3, 0, 0, 0, time.UTC)

	// Maintenance athlete whose plan was generated two weeks ago: the buffer
	// check must append a new batch.
	plan, err := service.GenerateMaintenancePlan(ctx, "ath-1", 2, refDate.AddDate(0, 0, -14))
	require.NoError(t, err)

	// A quality session missed yesterday with a free slot today.
	missed := domain.Workout{
		ID:              uuid.NewString(),
		PlanID:          plan.ID,
		AthleteID:       "ath-1",
		Date:            domain.Day(refDate).AddDate(0, 0, -1),
		Sport:           domain.SportRun,
		Priority:        domain.PriorityQuality,
		Status:          domain.WorkoutPlanned,
		Steps:           []domain.Step{{Kind: domain.StepMain, DurationMin: 40, Zone: 3}},
		IntensityScalar: 1.0,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.DeleteWorkoutsFrom(ctx, plan.ID, domain.Day(refDate).AddDate(0, 0, -1)))
	require.NoError(t, store.InsertWorkouts(ctx, []domain.Workout{missed}))

	require.NoError(t, sched.RunDailyPass(ctx, refDate))

	moved, err := store.GetWorkout(ctx, missed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.WorkoutPlanned, moved.Status)
	require.Equal(t, domain.Day(refDate), moved.Date)

	// The maintenance buffer was replenished out past the horizon.
	latest, err := store.LatestWorkoutDate(ctx, plan.ID)
	require.NoError(t, err)
	require.False(t, latest.Before(domain.Day(refDate).AddDate(0, 0, 13)))
}

func TestRunDailyPassCancelledBeforeDispatchLeavesWorkUntouched(t *testing.T) {
	store := memory.NewStore()
	service := engine.NewService(store)
	sched := New(service, store, 1, time.Second)

	refDate := time.Date(2026, time.March, 16, 3, 0, 0, 0, time.UTC)
	_, err := service.GenerateMaintenancePlan(context.Background(), "ath-1", 2, refDate.AddDate(0, 0, -7))
	require.NoError(t, err)
	before, err := store.ListActivePlans(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sched.RunDailyPass(ctx, refDate), context.Canceled)

	// No worker ran: the plan set is unchanged and nothing was rescheduled.
	after, err := store.ListActivePlans(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRunDailyPassWithNoAthletes(t *testing.T) {
	store := memory.NewStore()
	sched := New(engine.NewService(store), store, 2, time.Second)
	require.NoError(t, sched.RunDailyPass(context.Background(), time.Now().UTC()))
}

func TestSchedulerStartRejectsBadCron(t *testing.T) {
	store := memory.NewStore()
	sched := New(engine.NewService(store), store, 2, time.Second)
	_, err := sched.Start(context.Background(), "not a cron spec")
	require.Error(t, err)
}
