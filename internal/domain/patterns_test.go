package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeekPatternTierSessionCounts(t *testing.T) {
	counts := map[int]int{1: 3, 2: 6, 3: 7}
	for tier, want := range counts {
		week := WeekPattern(tier, PhaseBuild)
		sessions := 0
		for _, slot := range week {
			if !slot.Rest() {
				sessions++
			}
		}
		require.Equal(t, want, sessions, "tier %d", tier)
	}
}

func TestWeekPatternBuildTier2(t *testing.T) {
	week := WeekPattern(2, PhaseBuild)

	require.Equal(t, SportSwim, week[0].Sport)
	require.Equal(t, FocusEndurance, week[0].Focus)
	require.Equal(t, PriorityRecovery, week[0].Priority)

	require.Equal(t, FocusIntervals, week[2].Focus)
	require.Equal(t, PriorityQuality, week[2].Priority)

	// Day 5 carries the long key session.
	require.Equal(t, SportRun, week[5].Sport)
	require.Equal(t, FocusEndurance, week[5].Focus)
	require.Equal(t, PriorityKey, week[5].Priority)

	require.True(t, week[6].Rest())
}

func TestWeekPatternTaperDemotes(t *testing.T) {
	week := WeekPattern(2, PhaseTaper)

	for day, slot := range week {
		if slot.Rest() {
			continue
		}
		require.Equal(t, FocusRecovery, slot.Focus, "day %d", day)
	}

	// The key session drops to quality, quality days drop to recovery.
	require.Equal(t, PriorityQuality, week[5].Priority)
	require.Equal(t, PriorityRecovery, week[2].Priority)
	require.Equal(t, PriorityRecovery, week[0].Priority)
}

func TestWeekPatternInvalidTierDefaults(t *testing.T) {
	require.Equal(t, WeekPattern(2, PhaseBuild), WeekPattern(0, PhaseBuild))
	require.Equal(t, WeekPattern(2, PhaseBuild), WeekPattern(7, PhaseBuild))
}

func TestMaintenanceWeekFocusCycle(t *testing.T) {
	type wf struct {
		zone   int
		factor float64
	}
	want := []wf{{2, 1.0}, {2, 1.0}, {3, 1.0}, {2, 0.7}}
	for week := 0; week < 12; week++ {
		zone, factor := MaintenanceWeekFocus(week)
		require.Equal(t, want[week%4].zone, zone, "week %d", week)
		require.Equal(t, want[week%4].factor, factor, "week %d", week)
	}
}
