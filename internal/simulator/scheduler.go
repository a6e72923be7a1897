package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the three periodic simulation jobs: incident
// generation, lifecycle transition, and history pruning. A failed
// sweep is logged and superseded by the next interval; it never stops
// the scheduler.
type Scheduler struct {
	service *Service
	config  Config
	cron    *cron.Cron
}

// NewScheduler creates a scheduler for the given service.
func NewScheduler(service *Service, config Config, logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		service: service,
		config:  config,
		cron:    cron.New(cron.WithChain(cron.Recover(cl))),
	}
}

// Start registers the jobs and starts the timers.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		{"generate", s.config.GenerateInterval, s.service.GenerateIncident},
		{"transition", s.config.TransitionInterval, s.service.TransitionIncidents},
		{"prune", s.config.PruneInterval, s.service.PruneHistory},
	}

	for _, job := range jobs {
		name, run := job.name, job.run
		spec := "@every " + job.interval.String()
		if _, err := s.cron.AddFunc(spec, func() {
			if err := run(ctx); err != nil {
				slog.Error("simulation sweep failed", "job", name, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule %s job: %w", name, err)
		}
	}

	s.cron.Start()

	slog.Info("simulator scheduler started",
		"generate_interval", s.config.GenerateInterval,
		"transition_interval", s.config.TransitionInterval,
		"prune_interval", s.config.PruneInterval,
	)
	return nil
}

// Stop halts the timers and waits for any running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("simulator scheduler stopped")
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
