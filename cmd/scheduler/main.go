package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nicholas-won/TriOne-sub000/internal/config"
	"github.com/nicholas-won/TriOne-sub000/internal/engine"
	persistence "github.com/nicholas-won/TriOne-sub000/internal/persistence/postgres"
	"github.com/nicholas-won/TriOne-sub000/internal/scheduler"
)

func main() {
	runOnce := flag.Bool("once", false, "run a single daily pass immediately and exit")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := persistence.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := persistence.NewRepository(pool)
	service := engine.NewService(repo)
	sched := scheduler.New(service, repo, cfg.DailyPassWorkers, cfg.AthleteTimeout)

	if *runOnce {
		if err := sched.RunDailyPass(ctx, time.Now().UTC()); err != nil {
			log.Fatalf("daily pass failed: %v", err)
		}
		return
	}

	stop, err := sched.Start(ctx, cfg.DailyPassCron)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	// Metrics-only HTTP listener so the pass is observable.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{Addr: cfg.HTTPAddress, Handler: mux}

	go func() {
		log.Printf("training-scheduler listening on %s (cron %q)", cfg.HTTPAddress, cfg.DailyPassCron)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownCh
	cancel()
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
