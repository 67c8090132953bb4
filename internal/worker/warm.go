package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/airquality"
)

// Coordinator assembles air quality records and caches them as a side effect.
type Coordinator interface {
	GetAirQuality(ctx context.Context, lat, lon float64, hours int) (*airquality.Record, error)
}

// WarmJob keeps the record cache populated for the configured targets so
// interactive requests for major cities hit warm entries.
type WarmJob struct {
	config      WarmConfig
	logger      zerolog.Logger
	coordinator Coordinator

	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	TotalRuns     int64
	WarmedRecords int64
	FailedRecords int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config      WarmConfig
	Logger      zerolog.Logger
	Coordinator Coordinator
}

// NewWarmJob creates a new warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config.Targets = DefaultWarmTargets()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.ForecastHours <= 0 {
		config.ForecastHours = 24
	}

	return &WarmJob{
		config:      config,
		logger:      cfg.Logger,
		coordinator: cfg.Coordinator,
		metrics:     &WarmMetrics{},
	}
}

// WarmResult contains the outcome of a single warm pass.
type WarmResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Targets   int
	Warmed    int
	Failed    int
	Errors    []WarmError
}

// WarmError records a failure to warm one target.
type WarmError struct {
	Target Target
	Error  string
}

// Run executes one warm pass over all configured targets.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	startTime := time.Now()
	result := &WarmResult{
		StartTime: startTime,
		Targets:   len(j.config.Targets),
	}

	j.logger.Info().
		Int("targets", result.Targets).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warm pass")

	targetsChan := make(chan Target, len(j.config.Targets))
	resultsChan := make(chan targetResult, len(j.config.Targets))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, targetsChan, resultsChan)
		}()
	}

	for _, target := range j.config.Targets {
		targetsChan <- target
	}
	close(targetsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		if tr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, WarmError{
				Target: tr.target,
				Error:  tr.err.Error(),
			})
			continue
		}
		result.Warmed++
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("warmed", result.Warmed).
		Int("failed", result.Failed).
		Msg("cache warm pass completed")

	return result
}

type targetResult struct {
	target Target
	err    error
}

func (j *WarmJob) warmWorker(ctx context.Context, targets <-chan Target, results chan<- targetResult) {
	for target := range targets {
		select {
		case <-ctx.Done():
			return
		default:
			results <- targetResult{
				target: target,
				err:    j.warmTarget(ctx, target),
			}
		}
	}
}

// warmTarget assembles one record. The coordinator writes it to the shared
// cache, so a successful call is all the warming there is to do.
func (j *WarmJob) warmTarget(ctx context.Context, target Target) error {
	if j.coordinator == nil {
		return nil
	}

	targetCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	_, err := j.coordinator.GetAirQuality(targetCtx, target.Lat, target.Lon, j.config.ForecastHours)
	return err
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.WarmedRecords += int64(result.Warmed)
	j.metrics.FailedRecords += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		WarmedRecords:   j.metrics.WarmedRecords,
		FailedRecords:   j.metrics.FailedRecords,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns the current metrics as a map for health endpoints.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"warmed_records":    m.WarmedRecords,
		"failed_records":    m.FailedRecords,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
