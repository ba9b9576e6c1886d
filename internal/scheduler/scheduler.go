// Package scheduler runs the periodic settlement jobs of the presale backend.
package scheduler

import (
	"context"
	"time"

	"presale-backend/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// sweepSchedule prunes idle in-process rate limit windows.
const sweepSchedule = "0 * * * * *"

// Sweeper drops state that has aged out.
type Sweeper interface {
	Sweep() int
}

// Config controls which jobs are scheduled.
type Config struct {
	ReconcileSchedule string        // cron expression with seconds, empty disables
	ReconcileTimeout  time.Duration // per pass
}

// Scheduler drives the reconciler and housekeeping on cron schedules.
type Scheduler struct {
	cron       *cron.Cron
	reconciler ports.Reconciler
	sweeper    Sweeper
	cfg        Config
	log        zerolog.Logger
}

// New creates a scheduler. sweeper may be nil when nothing needs pruning.
func New(reconciler ports.Reconciler, sweeper Sweeper, cfg Config, log zerolog.Logger) *Scheduler {
	if cfg.ReconcileTimeout <= 0 {
		cfg.ReconcileTimeout = 2 * time.Minute
	}
	return &Scheduler{
		// A pass still running when the next tick fires is not overlapped.
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconciler: reconciler,
		sweeper:    sweeper,
		cfg:        cfg,
		log:        log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.ReconcileSchedule != "" && s.reconciler != nil {
		if _, err := s.cron.AddFunc(s.cfg.ReconcileSchedule, s.reconcile); err != nil {
			return err
		}
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(sweepSchedule, s.sweep); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Info().Str("reconcile_schedule", s.cfg.ReconcileSchedule).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReconcileTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconciler.RunOnce(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reconcile pass failed")
		return
	}
	s.log.Info().
		Int("committed", report.Committed).
		Int("failed", report.Failed).
		Int("manual_review", report.ManualReview).
		Int("pending", report.Pending).
		Int("claims_completed", report.ClaimsComplete).
		Int("claims_released", report.ClaimsReleased).
		Dur("took", time.Since(start)).
		Msg("reconcile pass finished")
}

func (s *Scheduler) sweep() {
	if n := s.sweeper.Sweep(); n > 0 {
		s.log.Debug().Int("dropped", n).Msg("rate limit windows swept")
	}
}
