package domain

// StepKind is the tagged variant of a workout step. Keeping the kinds closed
// lets the rescheduler and adaptation engine reason about workout structure
// without inspecting free-form fields.
type StepKind string

const (
	StepWarmup   StepKind = "warmup"
	StepMain     StepKind = "main"
	StepInterval StepKind = "interval"
	StepRest     StepKind = "rest"
	StepCooldown StepKind = "cooldown"
)

// ValidStepKind reports whether k is a known step kind.
func ValidStepKind(k StepKind) bool {
	switch k {
	case StepWarmup, StepMain, StepInterval, StepRest, StepCooldown:
		return true
	}
	return false
}

// defaultZone infers a target zone for steps whose template leaves it unset.
func (k StepKind) defaultZone() int {
	switch k {
	case StepMain, StepInterval:
		return 4
	default:
		return 1
	}
}

// Step is one concrete element of a scheduled workout. Targets are optional:
// a missing baseline leaves the corresponding dimension nil and the step is
// still schedulable.
type Step struct {
	Kind             StepKind `json:"kind"`
	DurationMin      float64  `json:"duration_min"`
	Zone             int      `json:"zone"`
	TargetPaceSec    *float64 `json:"target_pace_sec,omitempty"` // per 100m (swim) or per mile (run)
	TargetPowerWatts *int     `json:"target_power_watts,omitempty"`
	TargetHeartRate  *int     `json:"target_heart_rate,omitempty"`
}

// TemplateStep is the abstract form of a step as stored in the workout
// template catalog. Zone 0 means "infer from kind".
type TemplateStep struct {
	Kind        StepKind `json:"kind"`
	DurationMin float64  `json:"duration_min"`
	Zone        int      `json:"zone"`
}

// WorkoutTemplate is a catalog entry: an ordered list of abstract steps for
// one sport at one difficulty tier.
type WorkoutTemplate struct {
	ID         string
	Sport      Sport
	Name       string
	Difficulty int // 1 (easy) .. 4 (intervals)
	Steps      []TemplateStep
}
