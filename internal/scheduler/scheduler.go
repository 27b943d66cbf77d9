package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"kaloribot-api/internal/common"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler defines the interface for the background reminder scheduler
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	GetMetrics() MetricsSnapshot
}

// scheduler implements the Scheduler interface. All reminder decisions are
// derived from stored logs at tick time; the scheduler itself holds no
// per-user state, so duplicate ticks and restarts are harmless.
type scheduler struct {
	config     config.SchedulerConfig
	repository nutrition.NutritionRepository
	provider   messenger.Provider
	eventBus   events.EventBus
	logger     *zap.Logger
	metrics    *SchedulerMetrics

	cron    gocron.Scheduler
	running atomic.Bool

	// clock is replaceable so tests can pin the tick instant.
	clock common.Clock
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.SchedulerConfig, repository nutrition.NutritionRepository, provider messenger.Provider,
	eventBus events.EventBus, logger *zap.Logger) (Scheduler, error) {
	if cfg.SummaryHour < 0 || cfg.SummaryHour > 23 {
		return nil, NewConfigurationError("summary_hour", cfg.SummaryHour, "must be between 0 and 23")
	}
	if cfg.WarnAfterHours <= 0 {
		return nil, NewConfigurationError("warn_after_hours", cfg.WarnAfterHours, "must be greater than 0")
	}
	if cfg.WarnDeadlineHours <= cfg.WarnAfterHours {
		return nil, NewConfigurationError("warn_deadline_hours", cfg.WarnDeadlineHours, "must be greater than warn_after_hours")
	}
	if cfg.RewarnSuppressionHours <= 0 {
		return nil, NewConfigurationError("rewarn_suppression_hours", cfg.RewarnSuppressionHours, "must be greater than 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, NewConfigurationError("shutdown_timeout", cfg.ShutdownTimeout, "must be greater than 0")
	}

	return &scheduler{
		config:     cfg,
		repository: repository,
		provider:   provider,
		eventBus:   eventBus,
		logger:     logger,
		metrics:    NewSchedulerMetrics(),
		clock:      common.NewRealClock(),
	}, nil
}

// Start registers the recurring jobs and begins ticking
func (s *scheduler) Start(ctx context.Context) error {
	if s.running.Load() {
		return NewSchedulerError(ErrSchedulerAlreadyRunning, "scheduler is already running")
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return NewSchedulerError(ErrJobRegistrationFailed, err.Error())
	}
	s.cron = cron

	jobs := []struct {
		name       string
		definition gocron.JobDefinition
		run        func()
	}{
		{"meal_reminders", gocron.DurationJob(1 * time.Minute), s.runMealTick},
		{"water_reminders", gocron.CronJob("0 * * * *", false), s.runWaterTick},
		{"daily_summaries", gocron.CronJob("0 * * * *", false), s.runSummaryTick},
		{"window_warnings", gocron.CronJob("30 * * * *", false), s.runWindowTick},
	}

	for _, job := range jobs {
		if _, err := s.cron.NewJob(job.definition, gocron.NewTask(job.run)); err != nil {
			return NewSchedulerError(ErrJobRegistrationFailed, err.Error())
		}
	}

	s.cron.Start()
	s.running.Store(true)

	s.logger.Info("Reminder scheduler started",
		zap.Int("summary_hour", s.config.SummaryHour),
		zap.Int("warn_after_hours", s.config.WarnAfterHours),
		zap.Int("warn_deadline_hours", s.config.WarnDeadlineHours))

	go func() {
		<-ctx.Done()
		if s.running.Load() {
			if err := s.Stop(); err != nil {
				s.logger.Error("Failed to stop scheduler on context cancel", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop shuts the scheduler down, letting a tick in progress finish
func (s *scheduler) Stop() error {
	if !s.running.Load() {
		return NewSchedulerError(ErrSchedulerNotRunning, "scheduler is not running")
	}

	s.logger.Info("Stopping reminder scheduler...")

	done := make(chan error, 1)
	go func() {
		done <- s.cron.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			return NewSchedulerError(ErrSchedulerNotRunning, err.Error())
		}
	case <-time.After(time.Duration(s.config.ShutdownTimeout) * time.Second):
		return NewShutdownError(s.config.ShutdownTimeout)
	}

	s.running.Store(false)
	s.logger.Info("Reminder scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler is ticking
func (s *scheduler) IsRunning() bool {
	return s.running.Load()
}

// GetMetrics returns a snapshot of the reminder counters
func (s *scheduler) GetMetrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}
