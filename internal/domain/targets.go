package domain

import "math"

// longSessionMultiplier extends step durations of priority-1 key sessions.
const longSessionMultiplier = 1.3

// CalculateTargets expands a template's abstract steps into concrete steps
// with numeric targets for the given sport and baselines. Durations are
// scaled by the phase multiplier and, for priority-1 sessions, the long
// session multiplier. The intensity scalar shifts power and pace targets
// (pace inversely: a lower scalar means a numerically larger, slower pace).
//
// Missing baselines yield nil targets for that dimension, never an error.
func CalculateTargets(sport Sport, steps []TemplateStep, b *Baselines, phase Phase, priority int, intensity float64) []Step {
	if intensity <= 0 {
		intensity = 1.0
	}
	scale := PhaseDurationMultiplier(phase)
	if priority == PriorityKey {
		scale *= longSessionMultiplier
	}

	out := make([]Step, 0, len(steps))
	for _, ts := range steps {
		zone := ts.Zone
		if zone == 0 {
			zone = ts.Kind.defaultZone()
		}
		zone = clampZone(zone)

		step := Step{
			Kind:        ts.Kind,
			DurationMin: roundMinutes(ts.DurationMin * scale),
			Zone:        zone,
		}
		if ts.Kind != StepRest {
			applyTargets(&step, sport, b, intensity)
		}
		out = append(out, step)
	}
	return out
}

func applyTargets(step *Step, sport Sport, b *Baselines, intensity float64) {
	ranges := zoneTable[step.Zone]

	switch sport {
	case SportBike:
		if b.HasBike() {
			watts := int(math.Round(float64(*b.FTP) * ranges.FTP.mid() / 100 * intensity))
			step.TargetPowerWatts = &watts
		}
	case SportRun:
		if b.HasRun() {
			pace := PaceForZone(float64(*b.ThresholdRunPace), step.Zone, intensity)
			step.TargetPaceSec = &pace
		}
	case SportSwim:
		if b.HasSwim() {
			pace := PaceForZone(*b.CriticalSwimSpeed, step.Zone, intensity)
			step.TargetPaceSec = &pace
		}
	}

	if b != nil && b.MaxHeartRate != nil {
		bpm := int(math.Round(float64(*b.MaxHeartRate) * ranges.HR.mid() / 100))
		step.TargetHeartRate = &bpm
	}
}

// PaceForZone converts a threshold pace into a zone target pace. A higher
// zone percentage divides the baseline harder, producing a numerically
// smaller (faster) pace.
func PaceForZone(baselinePace float64, zone int, intensity float64) float64 {
	pct := zoneTable[clampZone(zone)].Pace.mid() / 100
	if intensity > 0 {
		pct *= intensity
	}
	return roundPace(baselinePace / pct)
}

// ScaleDurations applies a volume factor to step durations in place,
// keeping the half-minute resolution.
func ScaleDurations(steps []Step, factor float64) {
	for i := range steps {
		steps[i].DurationMin = roundMinutes(steps[i].DurationMin * factor)
	}
}

// roundMinutes keeps durations on half-minute resolution.
func roundMinutes(min float64) float64 {
	return math.Round(min*2) / 2
}

// roundPace keeps pace targets on tenth-of-a-second resolution.
func roundPace(sec float64) float64 {
	return math.Round(sec*10) / 10
}
