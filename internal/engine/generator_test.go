package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

func TestGeneratePlanForEvent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	eventID := "race-1"
	store.SeedEvents(domain.Event{
		ID:            eventID,
		Name:          "Spring Olympic",
		Date:          testRefDate.AddDate(0, 0, 12*7),
		DistanceClass: domain.DistanceOlympic,
	})
	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))

	plan, err := svc.GeneratePlan(ctx, GeneratePlanInput{
		AthleteID:  "ath-1",
		EventID:    &eventID,
		VolumeTier: 2,
	}, testRefDate)
	require.NoError(t, err)

	require.Equal(t, domain.PlanRacePrep, plan.Kind)
	require.Equal(t, domain.PlanActive, plan.Status)
	require.Equal(t, domain.PhaseBase, plan.Phase)
	require.NotNil(t, plan.TotalWeeks)
	require.Equal(t, 12, *plan.TotalWeeks)
	require.NotNil(t, plan.EventDate)
	require.Equal(t, domain.Day(testRefDate).AddDate(0, 0, 12*7), *plan.EventDate)

	// Tier 2 schedules six sessions a week.
	workouts, err := store.QueryWorkouts(ctx, plan.ID, plan.StartDate, plan.StartDate.AddDate(0, 0, 12*7))
	require.NoError(t, err)
	require.Len(t, workouts, 12*6)

	for _, w := range workouts {
		require.Equal(t, domain.WorkoutPlanned, w.Status)
		require.Equal(t, 1.0, w.IntensityScalar)
		require.NotEmpty(t, w.Steps)
	}
}

func TestGeneratePlanArchivesPriorPlan(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	prior, err := svc.GenerateMaintenancePlan(ctx, "ath-1", 2, testRefDate)
	require.NoError(t, err)

	plan, err := svc.GeneratePlan(ctx, GeneratePlanInput{AthleteID: "ath-1", VolumeTier: 2}, testRefDate)
	require.NoError(t, err)

	archived, ok := store.Plan(prior.ID)
	require.True(t, ok)
	require.Equal(t, domain.PlanArchived, archived.Status)

	active, err := store.GetActivePlan(ctx, "ath-1")
	require.NoError(t, err)
	require.Equal(t, plan.ID, active.ID)
}

func TestGeneratePlanUnknownEventFallsBack(t *testing.T) {
	svc, _ := newTestService()

	eventID := "missing"
	plan, err := svc.GeneratePlan(context.Background(), GeneratePlanInput{
		AthleteID:  "ath-1",
		EventID:    &eventID,
		VolumeTier: 2,
	}, testRefDate)
	require.NoError(t, err)
	require.NotNil(t, plan.EventDate)
	require.Equal(t, domain.Day(testRefDate).AddDate(0, 0, 84), *plan.EventDate)
}

func TestGeneratePlanUsesClosestTemplate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	store.SeedTemplates(
		domain.WorkoutTemplate{ID: "run-easy", Sport: domain.SportRun, Name: "easy run", Difficulty: 2, Steps: []domain.TemplateStep{
			{Kind: domain.StepMain, DurationMin: 45, Zone: 2},
		}},
		domain.WorkoutTemplate{ID: "run-vo2", Sport: domain.SportRun, Name: "vo2 repeats", Difficulty: 4, Steps: []domain.TemplateStep{
			{Kind: domain.StepWarmup, DurationMin: 15, Zone: 1},
			{Kind: domain.StepInterval, DurationMin: 3, Zone: 5},
			{Kind: domain.StepRest, DurationMin: 2},
			{Kind: domain.StepCooldown, DurationMin: 10, Zone: 1},
		}},
	)
	require.NoError(t, store.SaveBaselines(ctx, withAthlete(completeBaselines(), "ath-1")))

	plan, err := svc.GeneratePlan(ctx, GeneratePlanInput{AthleteID: "ath-1", VolumeTier: 2}, testRefDate)
	require.NoError(t, err)

	// Week one of a long horizon is a base week; find the interval-day run in
	// a build week instead. Day 2 of every build-phase week is a run
	// intervals slot and must have picked the difficulty-4 template.
	phases := domain.DistributePhases(12)
	buildStart := phases[0].Weeks * 7 // base weeks precede build
	day := plan.StartDate.AddDate(0, 0, buildStart+2)
	workouts, err := store.QueryWorkouts(ctx, plan.ID, day, day)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.Equal(t, domain.SportRun, workouts[0].Sport)
	require.Len(t, workouts[0].Steps, 4)
	require.Equal(t, domain.StepInterval, workouts[0].Steps[1].Kind)
}

func TestGeneratePlanRejectsBadTier(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GeneratePlan(context.Background(), GeneratePlanInput{AthleteID: "ath-1", VolumeTier: 0}, testRefDate)
	require.ErrorIs(t, err, ErrInvalidVolumeTier)
}

func withAthlete(b *domain.Baselines, athleteID string) domain.Baselines {
	out := *b
	out.AthleteID = athleteID
	return out
}
