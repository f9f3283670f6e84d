package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrPlanNotFound indicates the plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrWorkoutNotFound indicates the workout does not exist.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrActivePlanConflict signals the single-active-plan invariant is
	// already violated in the store; the operation must not proceed.
	ErrActivePlanConflict = errors.New("athlete has more than one active plan")
)

// PlanRepository manages plan rows and the single-active-plan invariant.
type PlanRepository interface {
	// GetActivePlan returns the athlete's active plan, or nil if none.
	// It returns ErrActivePlanConflict if more than one active plan exists.
	GetActivePlan(ctx context.Context, athleteID string) (*Plan, error)
	// CreatePlan inserts a plan row.
	CreatePlan(ctx context.Context, plan Plan) error
	// ArchivePlan flips a plan to archived.
	ArchivePlan(ctx context.Context, planID string) error
	// ListActivePlans returns every active plan, optionally filtered by kind.
	ListActivePlans(ctx context.Context, kind *PlanKind) ([]Plan, error)
}

// WorkoutRepository manages scheduled workout rows.
type WorkoutRepository interface {
	InsertWorkouts(ctx context.Context, workouts []Workout) error
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	UpdateWorkout(ctx context.Context, workout Workout) error
	DeleteWorkout(ctx context.Context, id string) error
	// QueryWorkouts returns a plan's workouts with date on [from, to],
	// ordered by date.
	QueryWorkouts(ctx context.Context, planID string, from, to time.Time) ([]Workout, error)
	// QueryWorkoutsByStatus filters QueryWorkouts by lifecycle status.
	QueryWorkoutsByStatus(ctx context.Context, planID string, status WorkoutStatus, from, to time.Time) ([]Workout, error)
	// UpcomingWorkouts returns planned workouts strictly after the given
	// day, ordered by date, capped at limit.
	UpcomingWorkouts(ctx context.Context, planID string, after time.Time, limit int) ([]Workout, error)
	// LatestWorkoutDate returns the furthest scheduled date for a plan, or
	// the zero time when the plan has no workouts.
	LatestWorkoutDate(ctx context.Context, planID string) (time.Time, error)
	// DeleteWorkoutsFrom removes a plan's planned workouts dated on or
	// after the given day.
	DeleteWorkoutsFrom(ctx context.Context, planID string, from time.Time) error
}

// BaselineRepository manages append-only baseline recordings.
type BaselineRepository interface {
	GetLatestBaselines(ctx context.Context, athleteID string) (*Baselines, error)
	SaveBaselines(ctx context.Context, baselines Baselines) error
}

// FatigueRepository manages the per-athlete fatigue state row.
type FatigueRepository interface {
	GetFatigueState(ctx context.Context, athleteID string) (*FatigueState, error)
	UpsertFatigueState(ctx context.Context, state FatigueState) error
}

// AuditRepository adds append-only feedback and adaptation records.
type AuditRepository interface {
	InsertFeedback(ctx context.Context, feedback Feedback) error
	InsertAdaptationLog(ctx context.Context, entry AdaptationLog) error
}

// Catalog exposes the read-only workout template and event catalogs.
type Catalog interface {
	ListTemplates(ctx context.Context, sport Sport) ([]WorkoutTemplate, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}

// OutboxEvent is a pending engine event awaiting delivery to the message
// broker. Payload is the JSON-encoded event body.
type OutboxEvent struct {
	EventID      int64
	EventType    string
	Topic        string
	PartitionKey string
	Payload      json.RawMessage
	CreatedAt    time.Time
}

// EventRecorder persists engine events for asynchronous delivery.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event OutboxEvent) error
}

// Store bundles every persistence concern the engine touches.
type Store interface {
	PlanRepository
	WorkoutRepository
	BaselineRepository
	FatigueRepository
	AuditRepository
	Catalog
	EventRecorder
}
