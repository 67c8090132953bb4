package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Default job intervals.
const (
	DefaultWarmInterval  = 15 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// SchedulerConfig holds configuration for the job scheduler.
type SchedulerConfig struct {
	// WarmJob runs every WarmInterval. Optional.
	WarmJob *WarmJob

	// WarmInterval is the time between warm passes.
	// Default: 15 minutes
	WarmInterval time.Duration

	// SweepJob runs every SweepInterval. Optional.
	SweepJob *SweepJob

	// SweepInterval is the time between cache sweeps.
	// Default: 5 minutes
	SweepInterval time.Duration

	Logger zerolog.Logger
}

// Scheduler runs the warm and sweep jobs on their configured intervals.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
}

// NewScheduler creates a scheduler with the configured jobs registered.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.WarmInterval <= 0 {
		cfg.WarmInterval = DefaultWarmInterval
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	s := gocron.NewScheduler(time.UTC)
	// A slow pass must not overlap the next one.
	s.SingletonModeAll()

	if cfg.WarmJob != nil {
		if _, err := s.Every(wholeMinutes(cfg.WarmInterval)).Minutes().StartImmediately().Do(func() {
			cfg.WarmJob.Run(context.Background())
		}); err != nil {
			return nil, fmt.Errorf("scheduling warm job: %w", err)
		}
	}

	if cfg.SweepJob != nil {
		if _, err := s.Every(wholeMinutes(cfg.SweepInterval)).Minutes().Do(func() {
			cfg.SweepJob.Run()
		}); err != nil {
			return nil, fmt.Errorf("scheduling sweep job: %w", err)
		}
	}

	return &Scheduler{scheduler: s, logger: cfg.Logger}, nil
}

// wholeMinutes converts an interval to whole minutes, rounding sub-minute
// intervals up to one.
func wholeMinutes(interval time.Duration) int {
	minutes := int(interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}
	return minutes
}

// Start begins running jobs without blocking.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("starting job scheduler")
	s.scheduler.StartAsync()
}

// Stop stops scheduling further runs.
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("stopping job scheduler")
	s.scheduler.Stop()
}
