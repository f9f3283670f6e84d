// Package scheduler runs the nightly maintenance pass: it sweeps every
// athlete with an active plan, reschedules yesterday's missed workouts, and
// tops up open-ended maintenance plans before they run dry.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/engine"
	"github.com/nicholas-won/TriOne-sub000/internal/observability"
)

// Scheduler owns the cron loop and the per-athlete worker pool.
type Scheduler struct {
	service        *engine.Service
	store          domain.Store
	workers        int
	athleteTimeout time.Duration
	logger         *log.Logger
	cron           *cron.Cron
}

// New constructs a Scheduler. workers bounds athlete concurrency;
// athleteTimeout caps how long one athlete's pass may take.
func New(service *engine.Service, store domain.Store, workers int, athleteTimeout time.Duration) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		service:        service,
		store:          store,
		workers:        workers,
		athleteTimeout: athleteTimeout,
		logger:         log.New(log.Writer(), "[scheduler] ", log.LstdFlags),
	}
}

// Start registers the daily pass on the given cron expression and launches
// the cron loop. The returned stop function halts scheduling and waits for a
// running pass to finish.
func (s *Scheduler) Start(ctx context.Context, cronSpec string) (stop func(), err error) {
	s.cron = cron.New()
	_, err = s.cron.AddFunc(cronSpec, func() {
		if err := s.RunDailyPass(ctx, time.Now().UTC()); err != nil {
			s.logger.Printf("daily pass failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	s.cron.Start()
	return func() {
		<-s.cron.Stop().Done()
	}, nil
}

// RunDailyPass executes one full pass for the given reference date. Athlete
// failures are isolated: one slow or broken athlete never blocks the rest.
func (s *Scheduler) RunDailyPass(ctx context.Context, refDate time.Time) error {
	start := time.Now()
	s.logger.Printf("daily pass starting for %s", domain.Day(refDate).Format("2006-01-02"))

	plans, err := s.store.ListActivePlans(ctx, nil)
	if err != nil {
		return err
	}

	athletes := make([]string, 0, len(plans))
	seen := make(map[string]struct{}, len(plans))
	for _, plan := range plans {
		if _, ok := seen[plan.AthleteID]; ok {
			continue
		}
		seen[plan.AthleteID] = struct{}{}
		athletes = append(athletes, plan.AthleteID)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	var ctxErr error
	for _, athleteID := range athletes {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case sem <- struct{}{}:
		}
		if ctxErr != nil {
			break
		}

		wg.Add(1)
		go func(athleteID string) {
			defer wg.Done()
			defer func() { <-sem }()
			s.processAthlete(ctx, athleteID, refDate)
		}(athleteID)
	}
	// In-flight workers must finish before the pass reports its outcome,
	// cancelled or not.
	wg.Wait()
	if ctxErr != nil {
		return ctxErr
	}

	if err := s.service.CheckAndGenerateMaintenanceWorkouts(ctx, refDate); err != nil {
		s.logger.Printf("maintenance top-up failed: %v", err)
	}

	observability.RecordDailyPass(time.Since(start))
	s.logger.Printf("daily pass finished: %d athletes in %s", len(athletes), time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Scheduler) processAthlete(ctx context.Context, athleteID string, refDate time.Time) {
	athleteCtx, cancel := context.WithTimeout(ctx, s.athleteTimeout)
	defer cancel()

	stats, err := s.service.ResolveMissedWorkouts(athleteCtx, athleteID, refDate)
	if err != nil {
		observability.RecordAthleteSkipped()
		s.logger.Printf("athlete %s: reschedule pass skipped: %v", athleteID, err)
		return
	}
	if stats.Examined > 0 {
		s.logger.Printf("athlete %s: examined=%d moved=%d bumped=%d discarded=%d",
			athleteID, stats.Examined, stats.Moved, stats.Bumped, stats.Discarded)
	}
}
