// Package postgres implements the engine's store contract over pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

// Repository provides Postgres-backed persistence for plans, workouts,
// baselines, fatigue state, audit records and the outbox.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ domain.Store = (*Repository)(nil)

const planColumns = `plan_id, athlete_id, event_id, event_date, start_date, kind, status, phase, volume_tier, total_weeks, created_at, updated_at`

// GetActivePlan returns the athlete's single active plan. Finding more than
// one is an invariant violation surfaced as ErrActivePlanConflict.
func (r *Repository) GetActivePlan(ctx context.Context, athleteID string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE athlete_id=$1 AND status=$2`
	rows, err := r.pool.Query(ctx, query, athleteID, domain.PlanActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans, err := scanPlans(rows)
	if err != nil {
		return nil, err
	}
	switch len(plans) {
	case 0:
		return nil, nil
	case 1:
		return &plans[0], nil
	default:
		return nil, domain.ErrActivePlanConflict
	}
}

// CreatePlan inserts a plan row.
func (r *Repository) CreatePlan(ctx context.Context, plan domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.AthleteID,
		plan.EventID,
		plan.EventDate,
		plan.StartDate,
		plan.Kind,
		plan.Status,
		plan.Phase,
		plan.VolumeTier,
		plan.TotalWeeks,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	return err
}

// ArchivePlan flips a plan to archived.
func (r *Repository) ArchivePlan(ctx context.Context, planID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE plans SET status=$1, updated_at=NOW() WHERE plan_id=$2`,
		domain.PlanArchived, planID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

// ListActivePlans returns active plans, optionally filtered by kind.
func (r *Repository) ListActivePlans(ctx context.Context, kind *domain.PlanKind) ([]domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status=$1`
	args := []any{domain.PlanActive}
	if kind != nil {
		query += ` AND kind=$2`
		args = append(args, *kind)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlans(rows)
}

func scanPlans(rows pgx.Rows) ([]domain.Plan, error) {
	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.AthleteID, &p.EventID, &p.EventDate, &p.StartDate, &p.Kind, &p.Status, &p.Phase, &p.VolumeTier, &p.TotalWeeks, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.StartDate = domain.Day(p.StartDate)
		if p.EventDate != nil {
			d := domain.Day(*p.EventDate)
			p.EventDate = &d
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

const workoutColumns = `workout_id, plan_id, athlete_id, scheduled_date, sport, priority, status, is_calibration_test, steps, intensity_scalar, was_adapted, created_at, updated_at`

// InsertWorkouts writes a generated batch in one transaction.
func (r *Repository) InsertWorkouts(ctx context.Context, workouts []domain.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO workouts (` + workoutColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	for _, w := range workouts {
		steps, err := json.Marshal(w.Steps)
		if err != nil {
			return fmt.Errorf("marshal steps: %w", err)
		}
		if _, err := tx.Exec(ctx, query,
			w.ID, w.PlanID, w.AthleteID, w.Date, w.Sport, w.Priority, w.Status,
			w.IsCalibrationTest, steps, w.IntensityScalar, w.WasAdapted,
			w.CreatedAt, w.UpdatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetWorkout fetches a workout by ID.
func (r *Repository) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE workout_id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkoutNotFound
		}
		return nil, err
	}
	return w, nil
}

// UpdateWorkout rewrites a workout row.
func (r *Repository) UpdateWorkout(ctx context.Context, workout domain.Workout) error {
	steps, err := json.Marshal(workout.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE workouts SET
        scheduled_date=$1, sport=$2, priority=$3, status=$4, steps=$5,
        intensity_scalar=$6, was_adapted=$7, updated_at=$8
        WHERE workout_id=$9`,
		workout.Date, workout.Sport, workout.Priority, workout.Status, steps,
		workout.IntensityScalar, workout.WasAdapted, workout.UpdatedAt, workout.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkoutNotFound
	}
	return nil
}

// DeleteWorkout removes a workout row.
func (r *Repository) DeleteWorkout(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE workout_id=$1`, id)
	return err
}

// QueryWorkouts returns a plan's workouts in the date window, ordered.
func (r *Repository) QueryWorkouts(ctx context.Context, planID string, from, to time.Time) ([]domain.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
        WHERE plan_id=$1 AND scheduled_date BETWEEN $2 AND $3
        ORDER BY scheduled_date, workout_id`
	rows, err := r.pool.Query(ctx, query, planID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// QueryWorkoutsByStatus filters the window by lifecycle status.
func (r *Repository) QueryWorkoutsByStatus(ctx context.Context, planID string, status domain.WorkoutStatus, from, to time.Time) ([]domain.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
        WHERE plan_id=$1 AND status=$2 AND scheduled_date BETWEEN $3 AND $4
        ORDER BY scheduled_date, workout_id`
	rows, err := r.pool.Query(ctx, query, planID, status, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// UpcomingWorkouts returns planned workouts strictly after the given day.
func (r *Repository) UpcomingWorkouts(ctx context.Context, planID string, after time.Time, limit int) ([]domain.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
        WHERE plan_id=$1 AND status=$2 AND scheduled_date > $3
        ORDER BY scheduled_date, workout_id
        LIMIT $4`
	rows, err := r.pool.Query(ctx, query, planID, domain.WorkoutPlanned, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// LatestWorkoutDate returns the furthest scheduled date for a plan, or the
// zero time when the plan has no workouts.
func (r *Repository) LatestWorkoutDate(ctx context.Context, planID string) (time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(scheduled_date) FROM workouts WHERE plan_id=$1`, planID).Scan(&latest)
	if err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return domain.Day(*latest), nil
}

// DeleteWorkoutsFrom removes a plan's planned workouts dated on or after the
// given day.
func (r *Repository) DeleteWorkoutsFrom(ctx context.Context, planID string, from time.Time) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM workouts WHERE plan_id=$1 AND status=$2 AND scheduled_date >= $3`,
		planID, domain.WorkoutPlanned, from)
	return err
}

func scanWorkout(row pgx.Row) (*domain.Workout, error) {
	var w domain.Workout
	var steps []byte
	if err := row.Scan(&w.ID, &w.PlanID, &w.AthleteID, &w.Date, &w.Sport, &w.Priority, &w.Status, &w.IsCalibrationTest, &steps, &w.IntensityScalar, &w.WasAdapted, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(steps, &w.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	w.Date = domain.Day(w.Date)
	return &w, nil
}

func scanWorkouts(rows pgx.Rows) ([]domain.Workout, error) {
	var workouts []domain.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

// GetLatestBaselines returns the most recent baselines row, or nil when the
// athlete has none.
func (r *Repository) GetLatestBaselines(ctx context.Context, athleteID string) (*domain.Baselines, error) {
	row := r.pool.QueryRow(ctx, `SELECT athlete_id, critical_swim_speed, threshold_run_pace, ftp_watts, max_heart_rate, resting_heart_rate, recorded_at
        FROM baselines WHERE athlete_id=$1 ORDER BY recorded_at DESC, baseline_id DESC LIMIT 1`, athleteID)
	var b domain.Baselines
	if err := row.Scan(&b.AthleteID, &b.CriticalSwimSpeed, &b.ThresholdRunPace, &b.FTP, &b.MaxHeartRate, &b.RestingHeartRate, &b.RecordedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// SaveBaselines appends a new baselines row; readings are never updated in
// place.
func (r *Repository) SaveBaselines(ctx context.Context, baselines domain.Baselines) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO baselines
        (athlete_id, critical_swim_speed, threshold_run_pace, ftp_watts, max_heart_rate, resting_heart_rate, recorded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		baselines.AthleteID, baselines.CriticalSwimSpeed, baselines.ThresholdRunPace,
		baselines.FTP, baselines.MaxHeartRate, baselines.RestingHeartRate, baselines.RecordedAt)
	return err
}

// GetFatigueState returns the athlete's fatigue row, or nil when none exists.
func (r *Repository) GetFatigueState(ctx context.Context, athleteID string) (*domain.FatigueState, error) {
	row := r.pool.QueryRow(ctx, `SELECT athlete_id, strikes, last_strike_at, last_adaptation_at, consecutive_completes, updated_at
        FROM fatigue_states WHERE athlete_id=$1`, athleteID)
	var f domain.FatigueState
	if err := row.Scan(&f.AthleteID, &f.Strikes, &f.LastStrikeAt, &f.LastAdaptationAt, &f.ConsecutiveCompletes, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// UpsertFatigueState writes the athlete's fatigue row.
func (r *Repository) UpsertFatigueState(ctx context.Context, state domain.FatigueState) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO fatigue_states
        (athlete_id, strikes, last_strike_at, last_adaptation_at, consecutive_completes, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (athlete_id) DO UPDATE SET
        strikes=EXCLUDED.strikes, last_strike_at=EXCLUDED.last_strike_at,
        last_adaptation_at=EXCLUDED.last_adaptation_at,
        consecutive_completes=EXCLUDED.consecutive_completes,
        updated_at=EXCLUDED.updated_at`,
		state.AthleteID, state.Strikes, state.LastStrikeAt, state.LastAdaptationAt,
		state.ConsecutiveCompletes, state.UpdatedAt)
	return err
}

// InsertFeedback appends a feedback row.
func (r *Repository) InsertFeedback(ctx context.Context, feedback domain.Feedback) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO feedback (feedback_id, workout_id, athlete_id, rating, rpe, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`,
		feedback.ID, feedback.WorkoutID, feedback.AthleteID, feedback.Rating, feedback.RPE, feedback.CreatedAt)
	return err
}

// InsertAdaptationLog appends an adaptation audit row.
func (r *Repository) InsertAdaptationLog(ctx context.Context, entry domain.AdaptationLog) error {
	actions, err := json.Marshal(entry.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO adaptation_logs
        (adaptation_id, athlete_id, plan_id, reason, strike_count, workouts_affected, actions, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.ID, entry.AthleteID, entry.PlanID, entry.Reason, entry.StrikeCount,
		entry.WorkoutsAffected, actions, entry.CreatedAt)
	return err
}

// ListTemplates returns the template catalog for a sport.
func (r *Repository) ListTemplates(ctx context.Context, sport domain.Sport) ([]domain.WorkoutTemplate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT template_id, sport, name, difficulty, steps FROM workout_templates WHERE sport=$1 ORDER BY difficulty`, sport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.WorkoutTemplate
	for rows.Next() {
		var t domain.WorkoutTemplate
		var steps []byte
		if err := rows.Scan(&t.ID, &t.Sport, &t.Name, &t.Difficulty, &steps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(steps, &t.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal template steps: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetEvent returns a race catalog entry, or nil when unknown.
func (r *Repository) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT event_id, name, event_date, distance_class FROM race_events WHERE event_id=$1`, eventID)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Date, &e.DistanceClass); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Date = domain.Day(e.Date)
	return &e, nil
}

// RecordEvent appends an outbox row for the dispatcher to deliver.
func (r *Repository) RecordEvent(ctx context.Context, event domain.OutboxEvent) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO outbox (event_type, topic, partition_key, payload, created_at)
        VALUES ($1,$2,$3,$4,$5)`,
		event.EventType, event.Topic, event.PartitionKey, event.Payload, event.CreatedAt)
	return err
}
