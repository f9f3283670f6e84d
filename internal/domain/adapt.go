package domain

import "math"

// intensityCutFactor is the reduction applied by a fatigue adaptation.
const intensityCutFactor = 0.85

// StrikeThreshold is the strike count that fires an adaptation event.
const StrikeThreshold = 2

// ReliefStreak is the consecutive-complete count that self-resolves one
// strike without a full adaptation.
const ReliefStreak = 5

// TargetRPE estimates the expected perceived exertion (1..10) of a workout
// from its hardest step zone. Used to compare against athlete-reported RPE.
func TargetRPE(w *Workout) int {
	maxZone := 1
	for _, s := range w.Steps {
		if s.Zone > maxZone {
			maxZone = s.Zone
		}
	}
	switch maxZone {
	case 1:
		return 2
	case 2:
		return 3
	case 3:
		return 5
	case 4:
		return 7
	case 5:
		return 8
	default:
		return 9
	}
}

// ApplyIntensityCut scales a workout's numeric targets down by the cut
// factor. The structure is untouched: same step count, same kinds, same
// zones; only power shrinks and pace grows (slower). Heart-rate targets are
// left alone since heart rate cannot be commanded proportionally.
func ApplyIntensityCut(w *Workout) {
	for i := range w.Steps {
		s := &w.Steps[i]
		if s.TargetPowerWatts != nil {
			watts := int(math.Round(float64(*s.TargetPowerWatts) * intensityCutFactor))
			s.TargetPowerWatts = &watts
		}
		if s.TargetPaceSec != nil {
			pace := roundPace(*s.TargetPaceSec / intensityCutFactor)
			s.TargetPaceSec = &pace
		}
	}
	w.IntensityScalar = roundPace(w.IntensityScalar * intensityCutFactor)
	w.WasAdapted = true
}

// ConvertToRecovery rewrites a key workout into a half-duration recovery
// session: every step is capped at zone 2 (zone 1 for warmup, cooldown and
// rest), interval work becomes steady main work, targets are recomputed from
// the baselines, and the priority drops to the recovery level.
func ConvertToRecovery(w *Workout, b *Baselines) {
	for i := range w.Steps {
		s := &w.Steps[i]
		s.DurationMin = roundMinutes(s.DurationMin * 0.5)
		if s.Kind == StepInterval {
			s.Kind = StepMain
		}
		switch s.Kind {
		case StepWarmup, StepCooldown, StepRest:
			s.Zone = 1
		default:
			s.Zone = 2
		}
		s.TargetPowerWatts = nil
		s.TargetPaceSec = nil
		s.TargetHeartRate = nil
		if s.Kind != StepRest {
			applyTargets(s, w.Sport, b, w.IntensityScalar)
		}
	}
	w.Priority = PriorityRecovery
	w.WasAdapted = true
}
