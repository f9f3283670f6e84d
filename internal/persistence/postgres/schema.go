package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema bootstraps the engine's tables. Step lists and the template catalog
// keep their ordered structure as JSONB; everything the engine filters on is
// a proper column.
const schema = `
CREATE TABLE IF NOT EXISTS plans (
    plan_id      UUID PRIMARY KEY,
    athlete_id   TEXT NOT NULL,
    event_id     TEXT,
    event_date   DATE,
    start_date   DATE NOT NULL,
    kind         TEXT NOT NULL,
    status       TEXT NOT NULL,
    phase        TEXT NOT NULL,
    volume_tier  INT NOT NULL,
    total_weeks  INT,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plans_athlete_status ON plans (athlete_id, status);

CREATE TABLE IF NOT EXISTS workouts (
    workout_id          UUID PRIMARY KEY,
    plan_id             UUID NOT NULL REFERENCES plans (plan_id),
    athlete_id          TEXT NOT NULL,
    scheduled_date      DATE NOT NULL,
    sport               TEXT NOT NULL,
    priority            INT NOT NULL,
    status              TEXT NOT NULL,
    is_calibration_test BOOLEAN NOT NULL DEFAULT FALSE,
    steps               JSONB NOT NULL,
    intensity_scalar    DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    was_adapted         BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL,
    updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_plan_date ON workouts (plan_id, scheduled_date);
CREATE INDEX IF NOT EXISTS idx_workouts_plan_status ON workouts (plan_id, status, scheduled_date);

CREATE TABLE IF NOT EXISTS baselines (
    baseline_id         BIGSERIAL PRIMARY KEY,
    athlete_id          TEXT NOT NULL,
    critical_swim_speed DOUBLE PRECISION,
    threshold_run_pace  INT,
    ftp_watts           INT,
    max_heart_rate      INT,
    resting_heart_rate  INT,
    recorded_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_baselines_athlete ON baselines (athlete_id, recorded_at DESC);

CREATE TABLE IF NOT EXISTS fatigue_states (
    athlete_id            TEXT PRIMARY KEY,
    strikes               INT NOT NULL DEFAULT 0,
    last_strike_at        TIMESTAMPTZ,
    last_adaptation_at    TIMESTAMPTZ,
    consecutive_completes INT NOT NULL DEFAULT 0,
    updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    feedback_id UUID PRIMARY KEY,
    workout_id  UUID NOT NULL,
    athlete_id  TEXT NOT NULL,
    rating      TEXT NOT NULL,
    rpe         INT,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS adaptation_logs (
    adaptation_id     UUID PRIMARY KEY,
    athlete_id        TEXT NOT NULL,
    plan_id           TEXT,
    reason            TEXT NOT NULL,
    strike_count      INT NOT NULL,
    workouts_affected INT NOT NULL,
    actions           JSONB NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS workout_templates (
    template_id TEXT PRIMARY KEY,
    sport       TEXT NOT NULL,
    name        TEXT NOT NULL,
    difficulty  INT NOT NULL,
    steps       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_templates_sport ON workout_templates (sport);

CREATE TABLE IF NOT EXISTS race_events (
    event_id       TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    event_date     DATE NOT NULL,
    distance_class TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox (
    event_id      BIGSERIAL PRIMARY KEY,
    event_type    TEXT NOT NULL,
    topic         TEXT NOT NULL,
    partition_key TEXT NOT NULL,
    payload       JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    claimed_at    TIMESTAMPTZ,
    published_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox (event_id) WHERE published_at IS NULL;
`

// EnsureSchema creates the engine tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
