package domain

// Focus is the training emphasis of a single day.
type Focus string

const (
	FocusRest      Focus = "rest"
	FocusEndurance Focus = "endurance"
	FocusTempo     Focus = "tempo"
	FocusIntervals Focus = "intervals"
	FocusRecovery  Focus = "recovery"
)

// TargetTier maps a focus to the template difficulty tier it should match.
func (f Focus) TargetTier() int {
	switch f {
	case FocusRecovery:
		return 1
	case FocusEndurance:
		return 2
	case FocusTempo:
		return 3
	case FocusIntervals:
		return 4
	default:
		return 2
	}
}

// Zone returns the default training zone for the focus.
func (f Focus) Zone() int {
	switch f {
	case FocusRecovery:
		return 1
	case FocusEndurance:
		return 2
	case FocusTempo:
		return 3
	case FocusIntervals:
		return 4
	default:
		return 2
	}
}

// DaySlot is one day of a weekly pattern.
type DaySlot struct {
	Sport    Sport // empty on rest days
	Focus    Focus
	Priority int
}

// Rest reports whether the slot is a rest day.
func (d DaySlot) Rest() bool { return d.Focus == FocusRest }

// tierSports fixes the day-to-sport template per volume tier. Day 0 is the
// first day of the training week.
var tierSports = map[int][7]Sport{
	1: {SportSwim, "", SportBike, "", SportRun, "", ""},
	2: {SportSwim, SportBike, SportRun, SportSwim, SportBike, SportRun, ""},
	3: {SportSwim, SportBike, SportRun, SportSwim, SportBike, SportRun, SportBike},
}

// phaseFocus assigns each weekday a focus by phase. Quality days sit midweek,
// the long key session lands on day 5.
var phaseFocus = map[Phase][7]Focus{
	PhaseBase: {
		FocusEndurance, FocusEndurance, FocusEndurance, FocusRecovery,
		FocusEndurance, FocusEndurance, FocusRecovery,
	},
	PhaseBuild: {
		FocusEndurance, FocusTempo, FocusIntervals, FocusRecovery,
		FocusTempo, FocusEndurance, FocusRecovery,
	},
	PhasePeak: {
		FocusIntervals, FocusTempo, FocusIntervals, FocusRecovery,
		FocusIntervals, FocusEndurance, FocusRecovery,
	},
}

// longDayIndex is the weekday carrying the priority-1 key session.
const longDayIndex = 5

// WeekPattern builds the 7-day pattern for a volume tier in a phase. Taper
// weeks force every day to recovery focus and demote each day's priority by
// one step.
func WeekPattern(tier int, phase Phase) [7]DaySlot {
	if tier < 1 || tier > 3 {
		tier = 2
	}
	sports := tierSports[tier]
	// Taper inherits the build week's structure; focus and priority are
	// overridden below so the demotion applies to the real priorities.
	focusPhase := phase
	if phase == PhaseTaper {
		focusPhase = PhaseBuild
	}
	focuses := phaseFocus[focusPhase]

	var week [7]DaySlot
	for day := 0; day < 7; day++ {
		if sports[day] == "" {
			week[day] = DaySlot{Focus: FocusRest}
			continue
		}
		focus := focuses[day]
		slot := DaySlot{
			Sport:    sports[day],
			Focus:    focus,
			Priority: dayPriority(day, focus),
		}
		if phase == PhaseTaper {
			slot.Focus = FocusRecovery
			slot.Priority = demote(slot.Priority)
		}
		week[day] = slot
	}
	return week
}

func dayPriority(day int, focus Focus) int {
	switch {
	case day == longDayIndex && focus == FocusEndurance:
		return PriorityKey
	case focus == FocusIntervals || focus == FocusTempo:
		return PriorityQuality
	default:
		return PriorityRecovery
	}
}

func demote(priority int) int {
	if priority >= PriorityRecovery {
		return PriorityRecovery
	}
	return priority + 1
}

// MaintenanceWeekFocus returns the focus zone and volume factor for a week
// index in the rolling four-week maintenance cycle: two zone-2 load weeks,
// one zone-3 week, then a 70% volume recovery week.
func MaintenanceWeekFocus(weekIndex int) (zone int, volumeFactor float64) {
	switch weekIndex % 4 {
	case 2:
		return 3, 1.0
	case 3:
		return 2, 0.7
	default:
		return 2, 1.0
	}
}
