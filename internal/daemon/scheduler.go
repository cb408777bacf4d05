package daemon

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"github.com/voyahchat/sitegen/internal/config"
	"github.com/voyahchat/sitegen/internal/logfields"
)

// Scheduler wraps gocron for periodic rebuild triggers.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// AddSchedule registers a named periodic trigger. Returns the job ID for
// later management.
func (s *Scheduler) AddSchedule(sc config.ScheduleConfig, run func()) (string, error) {
	interval, err := sc.IntervalDuration()
	if err != nil {
		return "", fmt.Errorf("schedule %s: %w", sc.Name, err)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(run),
		gocron.WithName(sc.Name),
	)
	if err != nil {
		return "", fmt.Errorf("schedule %s: %w", sc.Name, err)
	}

	slog.Info("Periodic rebuild scheduled",
		logfields.ScheduleName(sc.Name),
		slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins executing registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
