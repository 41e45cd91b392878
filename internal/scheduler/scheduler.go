// Package scheduler runs the perpetual background sweeps. Each task is
// registered once and started exactly once per process; there is no checked
// re-entry from multiple triggers.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/api/metrics"
)

// Task is a perpetual job run on a fixed interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Supervisor owns the background tasks for the lifetime of the process.
type Supervisor struct {
	tasks   []Task
	logger  zerolog.Logger
	started atomic.Bool
}

func New(logger zerolog.Logger) *Supervisor {
	return &Supervisor{logger: logger}
}

// Add registers a task. Must be called before Start.
func (s *Supervisor) Add(t Task) {
	s.tasks = append(s.tasks, t)
}

// Start launches one goroutine per task. Only the first call has any
// effect; tasks stop when ctx is cancelled.
func (s *Supervisor) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		s.logger.Warn().Msg("supervisor already started, ignoring")
		return
	}
	for _, t := range s.tasks {
		go s.runTask(ctx, t)
	}
}

func (s *Supervisor) runTask(ctx context.Context, t Task) {
	s.logger.Info().Str("task", t.Name).Dur("interval", t.Interval).Msg("background task started")
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("task", t.Name).Msg("background task stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := t.Run(ctx); err != nil {
				s.logger.Error().Err(err).Str("task", t.Name).Msg("background task pass failed")
			}
			metrics.SweepDurationSeconds.WithLabelValues(t.Name).Observe(time.Since(start).Seconds())
		}
	}
}
