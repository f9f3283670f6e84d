package domain

// PhaseWeeks is one segment of a periodized plan.
type PhaseWeeks struct {
	Phase Phase
	Weeks int
}

// DistributePhases splits a race horizon into an ordered phase sequence.
// The returned week counts always sum to weeksToEvent and the order is
// base, build, peak, taper with zero-week phases omitted. Horizons beyond
// twelve weeks use a proportional 30/40/15/remainder split with per-phase
// minimum floors; shorter horizons use fixed tables.
func DistributePhases(weeksToEvent int) []PhaseWeeks {
	w := weeksToEvent
	if w < 1 {
		w = 1
	}

	switch {
	case w == 1:
		return []PhaseWeeks{{PhaseTaper, 1}}
	case w == 2:
		return []PhaseWeeks{{PhaseBuild, 1}, {PhaseTaper, 1}}
	case w <= 4:
		return []PhaseWeeks{{PhaseBuild, w - 2}, {PhasePeak, 1}, {PhaseTaper, 1}}
	case w <= 8:
		return trimZero([]PhaseWeeks{
			{PhaseBase, w - 5},
			{PhaseBuild, 3},
			{PhasePeak, 1},
			{PhaseTaper, 1},
		})
	case w <= 12:
		return []PhaseWeeks{
			{PhaseBase, w - 7},
			{PhaseBuild, 4},
			{PhasePeak, 2},
			{PhaseTaper, 1},
		}
	default:
		return proportionalSplit(w)
	}
}

// proportionalSplit allocates 30% base, 40% build, 15% peak and leaves the
// remainder to taper. Peak is floored at two weeks; integer truncation
// guarantees taper keeps at least its proportional share.
func proportionalSplit(w int) []PhaseWeeks {
	base := int(float64(w) * 0.30)
	build := int(float64(w) * 0.40)
	peak := int(float64(w) * 0.15)
	if peak < 2 {
		peak = 2
	}
	taper := w - base - build - peak
	if taper < 1 {
		// Only reachable for horizons just above the fixed tables; keep the
		// taper by shortening base.
		base += taper - 1
		taper = 1
	}
	return []PhaseWeeks{
		{PhaseBase, base},
		{PhaseBuild, build},
		{PhasePeak, peak},
		{PhaseTaper, taper},
	}
}

func trimZero(in []PhaseWeeks) []PhaseWeeks {
	out := in[:0]
	for _, pw := range in {
		if pw.Weeks > 0 {
			out = append(out, pw)
		}
	}
	return out
}

// TotalWeeks sums a phase distribution.
func TotalWeeks(phases []PhaseWeeks) int {
	var total int
	for _, pw := range phases {
		total += pw.Weeks
	}
	return total
}
