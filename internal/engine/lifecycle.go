package engine

import (
	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

// PlanState is the explicit lifecycle state of an athlete's planning flow.
// The calibration-to-plan chain is modeled as transitions on this machine
// instead of conditionals scattered across onboarding and calibration code.
type PlanState string

const (
	StateNone              PlanState = "none"
	StateCalibrating       PlanState = "calibrating"
	StateActiveRacePrep    PlanState = "active_race_prep"
	StateActiveMaintenance PlanState = "active_maintenance"
	StateArchived          PlanState = "archived"
)

// planState derives the lifecycle state from a plan row.
func planState(p *domain.Plan) PlanState {
	if p == nil {
		return StateNone
	}
	if p.Status == domain.PlanArchived {
		return StateArchived
	}
	switch p.Kind {
	case domain.PlanCalibration:
		return StateCalibrating
	case domain.PlanMaintenance:
		return StateActiveMaintenance
	default:
		return StateActiveRacePrep
	}
}

// transitions enumerates the legal moves. Every active state can be
// archived; calibration completes into either active state; an athlete on
// maintenance can step up to race prep by selecting an event.
var transitions = map[PlanState][]PlanState{
	StateNone:              {StateCalibrating, StateActiveRacePrep, StateActiveMaintenance},
	StateCalibrating:       {StateActiveRacePrep, StateActiveMaintenance, StateArchived},
	StateActiveMaintenance: {StateActiveRacePrep, StateArchived},
	StateActiveRacePrep:    {StateActiveRacePrep, StateArchived},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to PlanState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
