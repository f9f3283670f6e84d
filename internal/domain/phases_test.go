package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistributePhasesSumsToHorizon(t *testing.T) {
	for weeks := 1; weeks <= 40; weeks++ {
		phases := DistributePhases(weeks)
		require.Equal(t, weeks, TotalWeeks(phases), "weeks=%d", weeks)
		for _, pw := range phases {
			require.Greater(t, pw.Weeks, 0, "weeks=%d has zero-width phase %s", weeks, pw.Phase)
		}
	}
}

func TestDistributePhasesOrder(t *testing.T) {
	for weeks := 1; weeks <= 40; weeks++ {
		phases := DistributePhases(weeks)
		for i := 1; i < len(phases); i++ {
			require.Less(t, PhaseRank(phases[i-1].Phase), PhaseRank(phases[i].Phase),
				"weeks=%d: %s before %s", weeks, phases[i-1].Phase, phases[i].Phase)
		}
		require.Equal(t, PhaseTaper, phases[len(phases)-1].Phase, "weeks=%d", weeks)
	}
}

func TestDistributePhasesFixedTables(t *testing.T) {
	require.Equal(t, []PhaseWeeks{{PhaseTaper, 1}}, DistributePhases(1))
	require.Equal(t, []PhaseWeeks{{PhaseBuild, 1}, {PhaseTaper, 1}}, DistributePhases(2))
	require.Equal(t, []PhaseWeeks{{PhaseBuild, 2}, {PhasePeak, 1}, {PhaseTaper, 1}}, DistributePhases(4))

	// A five-week horizon has no room for a base phase.
	require.Equal(t, []PhaseWeeks{{PhaseBuild, 3}, {PhasePeak, 1}, {PhaseTaper, 1}}, DistributePhases(5))

	require.Equal(t, []PhaseWeeks{
		{PhaseBase, 3}, {PhaseBuild, 3}, {PhasePeak, 1}, {PhaseTaper, 1},
	}, DistributePhases(8))

	require.Equal(t, []PhaseWeeks{
		{PhaseBase, 5}, {PhaseBuild, 4}, {PhasePeak, 2}, {PhaseTaper, 1},
	}, DistributePhases(12))
}

func TestDistributePhasesProportional(t *testing.T) {
	phases := DistributePhases(20)
	require.Equal(t, []PhaseWeeks{
		{PhaseBase, 6}, {PhaseBuild, 8}, {PhasePeak, 3}, {PhaseTaper, 3},
	}, phases)
}

func TestDistributePhasesClampsToOneWeek(t *testing.T) {
	require.Equal(t, []PhaseWeeks{{PhaseTaper, 1}}, DistributePhases(0))
	require.Equal(t, []PhaseWeeks{{PhaseTaper, 1}}, DistributePhases(-3))
}
