package domain

import "time"

// Phase is a periodization stage. Order is always base, build, peak, taper;
// a plan may use only a suffix or subset of the sequence.
type Phase string

const (
	PhaseBase  Phase = "base"
	PhaseBuild Phase = "build"
	PhasePeak  Phase = "peak"
	PhaseTaper Phase = "taper"
)

// phaseOrder maps phases to their canonical position.
var phaseOrder = map[Phase]int{
	PhaseBase:  0,
	PhaseBuild: 1,
	PhasePeak:  2,
	PhaseTaper: 3,
}

// PhaseRank returns the canonical position of p (base=0 .. taper=3).
func PhaseRank(p Phase) int { return phaseOrder[p] }

// PhaseDurationMultiplier scales step durations by training phase.
func PhaseDurationMultiplier(p Phase) float64 {
	switch p {
	case PhaseBase:
		return 0.85
	case PhasePeak:
		return 1.1
	case PhaseTaper:
		return 0.6
	default:
		return 1.0
	}
}

// PlanKind distinguishes the three generator outputs.
type PlanKind string

const (
	PlanRacePrep    PlanKind = "race_prep"
	PlanMaintenance PlanKind = "maintenance"
	PlanCalibration PlanKind = "calibration"
)

// PlanStatus is the lifecycle state of a plan.
type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// Plan represents one periodization effort. At most one plan per athlete is
// active at any time; creating a new plan archives the prior active one.
type Plan struct {
	ID            string
	AthleteID     string
	EventID       *string
	EventDate     *time.Time
	StartDate     time.Time
	Kind          PlanKind
	Status        PlanStatus
	Phase         Phase
	VolumeTier    int  // 1..3
	TotalWeeks    *int // nil for unbounded maintenance plans
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Event is a read-only catalog entry for a target race.
type Event struct {
	ID            string
	Name          string
	Date          time.Time
	DistanceClass DistanceClass
}

// DistanceClass describes the race distance family of an event.
type DistanceClass string

const (
	DistanceSprint  DistanceClass = "sprint"
	DistanceOlympic DistanceClass = "olympic"
	DistanceHalf    DistanceClass = "half"
	DistanceFull    DistanceClass = "full"
)
