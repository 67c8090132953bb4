package worker_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airglobe/airglobe/internal/worker"
)

func TestNewScheduler_NoJobs(t *testing.T) {
	sched, err := worker.NewScheduler(worker.SchedulerConfig{
		Logger: zerolog.Nop(),
	})

	require.NoError(t, err)
	require.NotNil(t, sched)

	sched.Start()
	sched.Stop()
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Config: worker.WarmConfig{
			Targets: testTargets(),
		},
		Logger: zerolog.Nop(),
	})
	sweepJob := worker.NewSweepJob(&stubExpiringCache{}, zerolog.Nop())

	sched, err := worker.NewScheduler(worker.SchedulerConfig{
		WarmJob:  warmJob,
		SweepJob: sweepJob,
		Logger:   zerolog.Nop(),
	})

	require.NoError(t, err)
	require.NotNil(t, sched)

	sched.Stop()
}

func TestNewScheduler_ZeroIntervalsAccepted(t *testing.T) {
	sweepJob := worker.NewSweepJob(&stubExpiringCache{}, zerolog.Nop())

	sched, err := worker.NewScheduler(worker.SchedulerConfig{
		SweepJob:      sweepJob,
		WarmInterval:  0,
		SweepInterval: 0,
		Logger:        zerolog.Nop(),
	})

	require.NoError(t, err)
	assert.NotNil(t, sched)
}
