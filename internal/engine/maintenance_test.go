package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

func TestGenerateMaintenancePlan(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))

	plan, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)
	require.Equal(t, domain.PlanMaintenance, plan.Kind)
	require.Nil(t, plan.TotalWeeks)
	require.Nil(t, plan.EventDate)

	// The initial batch covers two weeks at six sessions each.
	workouts, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 27))
	require.NoError(t, err)
	require.Len(t, workouts, 12)

	for _, w := range workouts {
		require.Equal(t, 0.85, w.IntensityScalar)
	}
}

func TestMaintenanceLoadWeeksDemoteQualityDays(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	plan, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)

	// Week zero is an endurance load week: only the day-5 long session keeps
	// a non-recovery priority.
	week, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, week, 6)
	for _, w := range week {
		if domain.Day(w.Date).Equal(plan.StartDate.AddDate(0, 0, 5)) {
			require.Equal(t, domain.PriorityKey, w.Priority)
			continue
		}
		require.Equal(t, domain.PriorityRecovery, w.Priority)
	}
}

func TestMaintenanceBufferTopUp(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	plan, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)

	// After the initial two-week batch the furthest workout sits inside the
	// 14-day buffer, so the daily check appends another batch.
	require.NoError(t, svc.CheckAndGenerateMaintenanceWorkouts(ctx, testRefDate))

	workouts, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 100))
	require.NoError(t, err)
	require.Len(t, workouts, 24)

	// Week 3 of the cycle is the recovery week: durations shrink to 70%.
	week3Start := plan.StartDate.AddDate(0, 0, 21)
	week3, err := store.QueryWorkouts(ctx, plan.ID, week3Start, week3Start.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.NotEmpty(t, week3)

	week0, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Less(t, week3[0].TotalDurationMin(), week0[0].TotalDurationMin())

	// Reduced-volume durations stay on the half-minute grid.
	for _, w := range week3 {
		for _, s := range w.Steps {
			require.Equal(t, math.Round(s.DurationMin*2)/2, s.DurationMin)
		}
	}

	// A second check with the same reference date is a no-op.
	require.NoError(t, svc.CheckAndGenerateMaintenanceWorkouts(ctx, testRefDate))
	again, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 100))
	require.NoError(t, err)
	require.Len(t, again, 24)
}

func TestMaintenanceCycleAlternatesZone(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))
	plan, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)
	require.NoError(t, svc.CheckAndGenerateMaintenanceWorkouts(ctx, testRefDate))

	mainZone := func(w domain.Workout) int {
		for _, s := range w.Steps {
			if s.Kind == domain.StepMain {
				return s.Zone
			}
		}
		return 0
	}

	// Week 2 of the cycle is the zone-3 tempo week; week 0 sits in zone 2.
	week0, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate)
	require.NoError(t, err)
	require.Len(t, week0, 1)
	require.Equal(t, 2, mainZone(week0[0]))

	week2Day0 := plan.StartDate.AddDate(0, 0, 14)
	week2, err := store.QueryWorkouts(ctx, plan.ID, week2Day0, week2Day0)
	require.NoError(t, err)
	require.Len(t, week2, 1)
	require.Equal(t, 3, mainZone(week2[0]))
}
