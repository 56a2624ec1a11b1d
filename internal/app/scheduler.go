/**
 * @description
 * Cron scheduler setup for the periodic billing cycle.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic billing-cycle job.
type Scheduler struct {
	cron     *cron.Cron
	engine   *BillingEngine
	logger   *slog.Logger
	schedule string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(engine *BillingEngine, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		engine:   engine,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the billing job and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.engine.Run(context.Background())
	}); err != nil {
		s.logger.Error("failed to schedule billing cycle job", "error", err)
		return
	}
	s.logger.Info("scheduled billing cycle job", "schedule", s.schedule)
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
