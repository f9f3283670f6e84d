package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTargetRPE(t *testing.T) {
	cases := []struct {
		maxZone int
		want    int
	}{
		{1, 2}, {2, 3}, {3, 5}, {4, 7}, {5, 8}, {6, 9},
	}
	for _, tc := range cases {
		w := &Workout{Steps: []Step{
			{Kind: StepWarmup, Zone: 1},
			{Kind: StepMain, Zone: tc.maxZone},
		}}
		require.Equal(t, tc.want, TargetRPE(w), "max zone %d", tc.maxZone)
	}
}

func TestApplyIntensityCut(t *testing.T) {
	power := 200
	pace := 300.0
	hr := 160
	w := &Workout{
		IntensityScalar: 1.0,
		Steps: []Step{
			{Kind: StepMain, DurationMin: 30, Zone: 4, TargetPowerWatts: &power, TargetHeartRate: &hr},
			{Kind: StepInterval, DurationMin: 10, Zone: 5, TargetPaceSec: &pace},
		},
	}

	ApplyIntensityCut(w)

	require.Equal(t, 170, *w.Steps[0].TargetPowerWatts)
	// Pace grows: a 15% cut means running slower, not faster.
	require.Equal(t, 352.9, *w.Steps[1].TargetPaceSec)
	// Heart rate cannot be commanded down; it stays.
	require.Equal(t, 160, *w.Steps[0].TargetHeartRate)

	// Structure is preserved.
	require.Equal(t, StepInterval, w.Steps[1].Kind)
	require.Equal(t, 5, w.Steps[1].Zone)
	require.Equal(t, 30.0, w.Steps[0].DurationMin)

	require.Equal(t, 0.85, w.IntensityScalar)
	require.True(t, w.WasAdapted)
}

func TestConvertToRecovery(t *testing.T) {
	power := 230
	w := &Workout{
		Sport:           SportBike,
		Priority:        PriorityKey,
		IntensityScalar: 1.0,
		Steps: []Step{
			{Kind: StepWarmup, DurationMin: 10, Zone: 1},
			{Kind: StepInterval, DurationMin: 20, Zone: 5, TargetPowerWatts: &power},
			{Kind: StepCooldown, DurationMin: 10, Zone: 1},
		},
	}

	ConvertToRecovery(w, testBaselines())

	require.Equal(t, PriorityRecovery, w.Priority)
	require.True(t, w.WasAdapted)

	// Durations halve, interval work becomes steady work, zones cap at 2.
	require.Equal(t, 5.0, w.Steps[0].DurationMin)
	require.Equal(t, 10.0, w.Steps[1].DurationMin)
	require.Equal(t, StepMain, w.Steps[1].Kind)
	require.Equal(t, 2, w.Steps[1].Zone)
	require.Equal(t, 1, w.Steps[0].Zone)

	// Targets are recomputed for the new easy zones: 65.5% of a 238W FTP.
	require.NotNil(t, w.Steps[1].TargetPowerWatts)
	require.Equal(t, 156, *w.Steps[1].TargetPowerWatts)
}

func TestHighIntensity(t *testing.T) {
	interval := &Workout{Priority: PriorityQuality, Steps: []Step{{Kind: StepInterval, Zone: 5}}}
	require.True(t, interval.HighIntensity())

	hardSteady := &Workout{Priority: PriorityKey, Steps: []Step{{Kind: StepMain, Zone: 4}}}
	require.True(t, hardSteady.HighIntensity())

	easy := &Workout{Priority: PriorityQuality, Steps: []Step{{Kind: StepMain, Zone: 2}}}
	require.False(t, easy.HighIntensity())

	// Recovery-priority workouts never count, whatever their steps say.
	recovery := &Workout{Priority: PriorityRecovery, Steps: []Step{{Kind: StepInterval, Zone: 6}}}
	require.False(t, recovery.HighIntensity())
}
