package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

func TestCalibrationResultsChainIntoMaintenancePlan(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	onboard, err := svc.Onboard(ctx, OnboardingInput{AthleteID: "ath-1", VolumeTier: 3}, testRefDate)
	require.NoError(t, err)
	require.Equal(t, domain.PlanCalibration, onboard.Plan.Kind)

	swim, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestSwim400, 247, testRefDate)
	require.NoError(t, err)
	require.InDelta(t, 64.75, swim.Value, 0.001)
	require.False(t, swim.AllTestsComplete)

	// Still calibrating until the last test lands.
	active, err := store.GetActivePlan(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanCalibration, active.Kind)

	bike, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestBike20Min, 250, testRefDate)
	require.NoError(t, err)
	require.Equal(t, float64(238), bike.Value)
	require.False(t, bike.AllTestsComplete)

	run, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestRunMile, 420, testRefDate)
	require.NoError(t, err)
	require.Equal(t, float64(483), run.Value)
	require.True(t, run.AllTestsComplete)

	// The completing submission archived the calibration week and generated
	// the real plan at the athlete's tier.
	active, err = store.GetActivePlan(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanMaintenance, active.Kind)
	require.Equal(t, 3, active.VolumeTier)

	archived, ok := store.Plan(onboard.Plan.ID)
	require.True(t, ok)
	require.Equal(t, domain.PlanArchived, archived.Status)

	baselines, err := store.GetLatestBaselines(ctx, "ath-1")
	require.NoError(t, err)
	require.True(t, baselines.Complete())
}

func TestCalibrationWithEventChainsIntoRacePrep(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	eventID := "race-1"
	store.SeedEvents(domain.Event{
		ID:            eventID,
		Name:          "Autumn Sprint",
		Date:          testRefDate.AddDate(0, 0, 8*7),
		DistanceClass: domain.DistanceSprint,
	})

	_, err := svc.Onboard(ctx, OnboardingInput{AthleteID: "ath-1", VolumeTier: 2, EventID: &eventID}, testRefDate)
	require.NoError(t, err)

	_, err = svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestSwim400, 247, testRefDate)
	require.NoError(t, err)
	_, err = svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestBike20Min, 250, testRefDate)
	require.NoError(t, err)
	result, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestRunMile, 420, testRefDate)
	require.NoError(t, err)
	require.True(t, result.AllTestsComplete)

	active, err := store.GetActivePlan(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanRacePrep, active.Kind)
	require.NotNil(t, active.EventID)
	require.Equal(t, eventID, *active.EventID)
	require.NotNil(t, active.TotalWeeks)
	require.Equal(t, 8, *active.TotalWeeks)
}

func TestCalibrationResultOnRealPlanDoesNotRegenerate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))
	plan, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)

	// A fresh time trial on an existing plan just updates the baseline.
	result, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestBike20Min, 260, testRefDate)
	require.NoError(t, err)
	require.Equal(t, float64(247), result.Value)
	require.True(t, result.AllTestsComplete)

	active, err := store.GetActivePlan(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, plan.ID, active.ID)

	baselines, err := store.GetLatestBaselines(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, 247, *baselines.FTP)
}

func TestCalibrationRejectsBadResult(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestSwim400, -1, testRefDate)
	require.ErrorIs(t, err, domain.ErrInvalidTestResult)

	_, err = svc.ProcessCalibrationResult(ctx, "ath-1", domain.TestType("swim_1500"), 100, testRefDate)
	require.ErrorIs(t, err, domain.ErrUnknownTestType)
}
