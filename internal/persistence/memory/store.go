// Package memory provides an in-memory implementation of the engine's store
// contract for unit tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

// Store keeps all engine state in process under a single lock.
type Store struct {
	mu          sync.RWMutex
	plans       map[string]domain.Plan
	workouts    map[string]domain.Workout
	baselines   map[string][]domain.Baselines
	fatigue     map[string]domain.FatigueState
	feedback    []domain.Feedback
	adaptations []domain.AdaptationLog
	templates   map[domain.Sport][]domain.WorkoutTemplate
	events      map[string]domain.Event
	outbox      []domain.OutboxEvent
	nextEventID int64
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		plans:     make(map[string]domain.Plan),
		workouts:  make(map[string]domain.Workout),
		baselines: make(map[string][]domain.Baselines),
		fatigue:   make(map[string]domain.FatigueState),
		templates: make(map[domain.Sport][]domain.WorkoutTemplate),
		events:    make(map[string]domain.Event),
	}
}

var _ domain.Store = (*Store)(nil)

// SeedTemplates loads catalog templates.
func (s *Store) SeedTemplates(templates ...domain.WorkoutTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range templates {
		s.templates[t.Sport] = append(s.templates[t.Sport], t)
	}
}

// SeedEvents loads catalog events.
func (s *Store) SeedEvents(events ...domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.events[e.ID] = e
	}
}

// GetActivePlan implements domain.PlanRepository.
func (s *Store) GetActivePlan(ctx context.Context, athleteID string) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Plan
	for id := range s.plans {
		plan := s.plans[id]
		if plan.AthleteID != athleteID || plan.Status != domain.PlanActive {
			continue
		}
		if found != nil {
			return nil, domain.ErrActivePlanConflict
		}
		p := plan
		found = &p
	}
	return found, nil
}

// CreatePlan implements domain.PlanRepository.
func (s *Store) CreatePlan(ctx context.Context, plan domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = plan
	return nil
}

// ArchivePlan implements domain.PlanRepository.
func (s *Store) ArchivePlan(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[planID]
	if !ok {
		return domain.ErrPlanNotFound
	}
	plan.Status = domain.PlanArchived
	plan.UpdatedAt = time.Now().UTC()
	s.plans[planID] = plan
	return nil
}

// ListActivePlans implements domain.PlanRepository.
func (s *Store) ListActivePlans(ctx context.Context, kind *domain.PlanKind) ([]domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Plan
	for _, plan := range s.plans {
		if plan.Status != domain.PlanActive {
			continue
		}
		if kind != nil && plan.Kind != *kind {
			continue
		}
		out = append(out, plan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Plan returns a plan by ID for test assertions.
func (s *Store) Plan(planID string) (domain.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[planID]
	return plan, ok
}

// InsertWorkouts implements domain.WorkoutRepository.
func (s *Store) InsertWorkouts(ctx context.Context, workouts []domain.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range workouts {
		s.workouts[w.ID] = w
	}
	return nil
}

// GetWorkout implements domain.WorkoutRepository.
func (s *Store) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workouts[id]
	if !ok {
		return nil, domain.ErrWorkoutNotFound
	}
	return &w, nil
}

// UpdateWorkout implements domain.WorkoutRepository.
func (s *Store) UpdateWorkout(ctx context.Context, workout domain.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[workout.ID]; !ok {
		return domain.ErrWorkoutNotFound
	}
	s.workouts[workout.ID] = workout
	return nil
}

// DeleteWorkout implements domain.WorkoutRepository.
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workouts, id)
	return nil
}

// QueryWorkouts implements domain.WorkoutRepository.
func (s *Store) QueryWorkouts(ctx context.Context, planID string, from, to time.Time) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(planID, "", from, to), nil
}

// QueryWorkoutsByStatus implements domain.WorkoutRepository.
func (s *Store) QueryWorkoutsByStatus(ctx context.Context, planID string, status domain.WorkoutStatus, from, to time.Time) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(planID, status, from, to), nil
}

func (s *Store) query(planID string, status domain.WorkoutStatus, from, to time.Time) []domain.Workout {
	var out []domain.Workout
	for _, w := range s.workouts {
		if w.PlanID != planID {
			continue
		}
		if status != "" && w.Status != status {
			continue
		}
		if w.Date.Before(from) || w.Date.After(to) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpcomingWorkouts implements domain.WorkoutRepository.
func (s *Store) UpcomingWorkouts(ctx context.Context, planID string, after time.Time, limit int) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Workout
	for _, w := range s.workouts {
		if w.PlanID != planID || w.Status != domain.WorkoutPlanned || !w.Date.After(after) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LatestWorkoutDate implements domain.WorkoutRepository.
func (s *Store) LatestWorkoutDate(ctx context.Context, planID string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest time.Time
	for _, w := range s.workouts {
		if w.PlanID == planID && w.Date.After(latest) {
			latest = w.Date
		}
	}
	return latest, nil
}

// DeleteWorkoutsFrom implements domain.WorkoutRepository.
func (s *Store) DeleteWorkoutsFrom(ctx context.Context, planID string, from time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.workouts {
		if w.PlanID == planID && w.Status == domain.WorkoutPlanned && !w.Date.Before(from) {
			delete(s.workouts, id)
		}
	}
	return nil
}

// GetLatestBaselines implements domain.BaselineRepository.
func (s *Store) GetLatestBaselines(ctx context.Context, athleteID string) (*domain.Baselines, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.baselines[athleteID]
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[len(rows)-1]
	return &latest, nil
}

// SaveBaselines implements domain.BaselineRepository. Rows are append-only.
func (s *Store) SaveBaselines(ctx context.Context, baselines domain.Baselines) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[baselines.AthleteID] = append(s.baselines[baselines.AthleteID], baselines)
	return nil
}

// GetFatigueState implements domain.FatigueRepository.
func (s *Store) GetFatigueState(ctx context.Context, athleteID string) (*domain.FatigueState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.fatigue[athleteID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// UpsertFatigueState implements domain.FatigueRepository.
func (s *Store) UpsertFatigueState(ctx context.Context, state domain.FatigueState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fatigue[state.AthleteID] = state
	return nil
}

// InsertFeedback implements domain.AuditRepository.
func (s *Store) InsertFeedback(ctx context.Context, feedback domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, feedback)
	return nil
}

// InsertAdaptationLog implements domain.AuditRepository.
func (s *Store) InsertAdaptationLog(ctx context.Context, entry domain.AdaptationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adaptations = append(s.adaptations, entry)
	return nil
}

// AdaptationLogs returns the recorded adaptation entries for assertions.
func (s *Store) AdaptationLogs() []domain.AdaptationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AdaptationLog, len(s.adaptations))
	copy(out, s.adaptations)
	return out
}

// ListTemplates implements domain.Catalog.
func (s *Store) ListTemplates(ctx context.Context, sport domain.Sport) ([]domain.WorkoutTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WorkoutTemplate, len(s.templates[sport]))
	copy(out, s.templates[sport])
	return out, nil
}

// GetEvent implements domain.Catalog.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, nil
	}
	return &event, nil
}

// RecordEvent implements domain.EventRecorder.
func (s *Store) RecordEvent(ctx context.Context, event domain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	event.EventID = s.nextEventID
	s.outbox = append(s.outbox, event)
	return nil
}

// OutboxEvents returns the recorded events for assertions.
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.OutboxEvent, len(s.outbox))
	copy(out, s.outbox)
	return out
}
