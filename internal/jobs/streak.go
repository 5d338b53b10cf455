package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubedoebook/internal/api/repository"

	"github.com/go-co-op/gocron/v2"
)

// StreakResetter owns the daily sweep that zeroes login streaks for users
// who skipped a day. The sweep is one UPDATE, so a missed run just means the
// next one catches the same rows.
type StreakResetter struct {
	statsRepo repository.StatsRepository
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

func NewStreakResetter(statsRepo repository.StatsRepository, logger *slog.Logger) (*StreakResetter, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &StreakResetter{
		statsRepo: statsRepo,
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

// Start schedules the sweep shortly after midnight and runs the scheduler in
// the background.
func (s *StreakResetter) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(s.run),
	)
	if err != nil {
		return fmt.Errorf("schedule streak reset: %w", err)
	}
	s.scheduler.Start()
	s.logger.Info("streak reset job scheduled")
	return nil
}

func (s *StreakResetter) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *StreakResetter) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	affected, err := s.statsRepo.ResetBrokenStreaks(ctx)
	if err != nil {
		s.logger.Error("streak reset failed", "error", err)
		return
	}
	s.logger.Info("streak reset complete", "reset_count", affected)
}
