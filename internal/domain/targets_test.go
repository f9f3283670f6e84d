package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBaselines() *Baselines {
	css := 64.75
	pace := 483
	ftp := 238
	maxHR := 185
	return &Baselines{
		AthleteID:         "ath-1",
		CriticalSwimSpeed: &css,
		ThresholdRunPace:  &pace,
		FTP:               &ftp,
		MaxHeartRate:      &maxHR,
	}
}

func TestCalculateTargetsBikePower(t *testing.T) {
	steps := CalculateTargets(SportBike, []TemplateStep{
		{Kind: StepMain, DurationMin: 30, Zone: 4},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 1.0)

	require.Len(t, steps, 1)
	require.NotNil(t, steps[0].TargetPowerWatts)
	// Zone 4 midpoint is 98% of a 238W FTP.
	require.Equal(t, 233, *steps[0].TargetPowerWatts)
	require.Nil(t, steps[0].TargetPaceSec)

	require.NotNil(t, steps[0].TargetHeartRate)
	// Zone 4 midpoint is 85% of a 185 max.
	require.Equal(t, 157, *steps[0].TargetHeartRate)
}

func TestCalculateTargetsRunPace(t *testing.T) {
	steps := CalculateTargets(SportRun, []TemplateStep{
		{Kind: StepMain, DurationMin: 40, Zone: 2},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 1.0)

	require.Len(t, steps, 1)
	require.NotNil(t, steps[0].TargetPaceSec)
	// Zone 2 midpoint is 80.5% of threshold: 483 / 0.805 = 600 sec/mile.
	require.Equal(t, 600.0, *steps[0].TargetPaceSec)
	require.Nil(t, steps[0].TargetPowerWatts)
}

func TestCalculateTargetsSwimPace(t *testing.T) {
	steps := CalculateTargets(SportSwim, []TemplateStep{
		{Kind: StepMain, DurationMin: 30, Zone: 2},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 1.0)

	require.NotNil(t, steps[0].TargetPaceSec)
	require.Equal(t, 80.4, *steps[0].TargetPaceSec)
}

func TestCalculateTargetsIntensityScalar(t *testing.T) {
	steps := CalculateTargets(SportRun, []TemplateStep{
		{Kind: StepMain, DurationMin: 40, Zone: 2},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 0.85)

	// A lower scalar slows the pace target but leaves heart rate alone.
	require.Equal(t, 705.9, *steps[0].TargetPaceSec)
	require.Equal(t, 120, *steps[0].TargetHeartRate)
}

func TestCalculateTargetsDurationScaling(t *testing.T) {
	template := []TemplateStep{{Kind: StepMain, DurationMin: 30, Zone: 2}}
	b := testBaselines()

	base := CalculateTargets(SportRun, template, b, PhaseBase, PriorityRecovery, 1.0)
	require.Equal(t, 25.5, base[0].DurationMin)

	taper := CalculateTargets(SportRun, template, b, PhaseTaper, PriorityRecovery, 1.0)
	require.Equal(t, 18.0, taper[0].DurationMin)

	// Priority-1 sessions get the long multiplier on top of the phase scale.
	long := CalculateTargets(SportRun, template, b, PhaseBuild, PriorityKey, 1.0)
	require.Equal(t, 39.0, long[0].DurationMin)
}

func TestCalculateTargetsRestStep(t *testing.T) {
	steps := CalculateTargets(SportBike, []TemplateStep{
		{Kind: StepRest, DurationMin: 5},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 1.0)

	require.Nil(t, steps[0].TargetPowerWatts)
	require.Nil(t, steps[0].TargetHeartRate)
	require.Equal(t, 1, steps[0].Zone)
}

func TestCalculateTargetsMissingBaselines(t *testing.T) {
	steps := CalculateTargets(SportBike, []TemplateStep{
		{Kind: StepMain, DurationMin: 30, Zone: 3},
	}, nil, PhaseBuild, PriorityRecovery, 1.0)

	require.Nil(t, steps[0].TargetPowerWatts)
	require.Nil(t, steps[0].TargetHeartRate)
	require.Equal(t, 30.0, steps[0].DurationMin)
}

func TestCalculateTargetsDefaultsZone(t *testing.T) {
	steps := CalculateTargets(SportBike, []TemplateStep{
		{Kind: StepInterval, DurationMin: 10},
		{Kind: StepWarmup, DurationMin: 10},
	}, testBaselines(), PhaseBuild, PriorityRecovery, 1.0)

	require.Equal(t, 4, steps[0].Zone)
	require.Equal(t, 1, steps[1].Zone)
}

func TestScaleDurationsKeepsHalfMinuteResolution(t *testing.T) {
	steps := []Step{
		{Kind: StepMain, DurationMin: 31.5, Zone: 2},
		{Kind: StepCooldown, DurationMin: 45, Zone: 1},
	}

	ScaleDurations(steps, 0.7)

	// 31.5 * 0.7 = 22.05 snaps back onto the half-minute grid.
	require.Equal(t, 22.0, steps[0].DurationMin)
	require.Equal(t, 31.5, steps[1].DurationMin)
}

func TestPaceForZoneClampsZone(t *testing.T) {
	require.Equal(t, PaceForZone(483, 6, 1.0), PaceForZone(483, 9, 1.0))
	require.Equal(t, PaceForZone(483, 1, 1.0), PaceForZone(483, 0, 1.0))
}
