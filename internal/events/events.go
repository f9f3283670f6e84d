// Package events defines the payloads the engine publishes through the
// outbox. External collaborators (the notifier, the mobile backend) consume
// these from Kafka; the engine itself never pushes notifications.
package events

import "time"

// Topics the outbox dispatcher delivers to.
const (
	TopicPlans       = "training_plan_events"
	TopicAdaptations = "training_adaptation_events"
)

// Event types carried in the outbox rows.
const (
	TypePlanCreated          = "plan.created"
	TypePlanArchived         = "plan.archived"
	TypeCalibrationCompleted = "calibration.completed"
	TypeAdaptationTriggered  = "adaptation.triggered"
)

// PlanCreated is emitted when a generator produces a new plan.
type PlanCreated struct {
	PlanID     string     `json:"plan_id"`
	AthleteID  string     `json:"athlete_id"`
	Kind       string     `json:"kind"`
	StartDate  time.Time  `json:"start_date"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	TotalWeeks *int       `json:"total_weeks,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// PlanArchived is emitted when a plan leaves the active state.
type PlanArchived struct {
	PlanID     string    `json:"plan_id"`
	AthleteID  string    `json:"athlete_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CalibrationCompleted is emitted when the third calibration test lands.
type CalibrationCompleted struct {
	AthleteID  string    `json:"athlete_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AdaptationTriggered is emitted when the strike threshold fires an
// adaptation. The notifier turns this into the athlete-facing push message.
type AdaptationTriggered struct {
	AthleteID        string    `json:"athlete_id"`
	PlanID           string    `json:"plan_id"`
	Reason           string    `json:"reason"`
	StrikeCount      int       `json:"strike_count"`
	WorkoutsAffected int       `json:"workouts_affected"`
	OccurredAt       time.Time `json:"occurred_at"`
}
