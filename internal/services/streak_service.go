package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/metrics"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/streak"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUserRequired = errors.New("user id is required")

// StreakService keeps yesterday's logs complete and the habit streak
// aggregates in sync with the log history. Both passes are best effort: a
// failure stops the pass and leaves earlier habits updated.
type StreakService struct {
	habitRepo repository.HabitRepository
	logRepo   repository.HabitLogRepository
	log       *zap.Logger
	now       func() time.Time
}

// NewStreakService creates a new StreakService
func NewStreakService(habitRepo repository.HabitRepository, logRepo repository.HabitLogRepository, log *zap.Logger) *StreakService {
	return &StreakService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		log:       log,
		now:       time.Now,
	}
}

// BackfillMissedLogs writes a missed log for yesterday on every active daily
// habit that has none. Habits created after yesterday are skipped. It returns
// the number of logs inserted.
func (s *StreakService) BackfillMissedLogs(ctx context.Context, userID string, loc *time.Location) (int, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}

	yesterday := utils.Yesterday(s.now(), loc)

	habits, err := s.habitRepo.ListActiveDaily(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list daily habits: %w", err)
	}

	inserted := 0
	defer func() {
		metrics.BackfillLogsInserted.Add(float64(inserted))
	}()

	for _, habit := range habits {
		if utils.DayOf(habit.CreatedAt, loc) > yesterday {
			continue
		}

		_, err := s.logRepo.FindByDate(ctx, habit.ID, yesterday)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return inserted, fmt.Errorf("failed to find log for habit %s: %w", habit.ID, err)
		}

		missed := &models.HabitLog{
			HabitID: habit.ID,
			UserID:  userID,
			Date:    yesterday,
			Status:  models.LogStatusMissed,
		}
		if err := s.logRepo.Create(ctx, missed); err != nil {
			return inserted, fmt.Errorf("failed to insert missed log for habit %s: %w", habit.ID, err)
		}
		inserted++
	}

	return inserted, nil
}

// RecomputeStreaks recalculates current and best streak for every active habit
// of userID. Habits without logs are left untouched.
func (s *StreakService) RecomputeStreaks(ctx context.Context, userID string, loc *time.Location) error {
	if userID == "" {
		return ErrUserRequired
	}

	now := s.now()
	today := utils.Today(now, loc)
	yesterday := utils.Yesterday(now, loc)

	habits, err := s.habitRepo.ListActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list active habits: %w", err)
	}

	for _, habit := range habits {
		if err := s.recomputeHabit(ctx, habit.ID, today, yesterday); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeHabit recalculates the streaks of a single habit.
func (s *StreakService) RecomputeHabit(ctx context.Context, habitID string, loc *time.Location) error {
	now := s.now()
	return s.recomputeHabit(ctx, habitID, utils.Today(now, loc), utils.Yesterday(now, loc))
}

func (s *StreakService) recomputeHabit(ctx context.Context, habitID, today, yesterday string) error {
	logs, err := s.logRepo.ListRecent(ctx, habitID, constants.MaxStreakLogs)
	if err != nil {
		return fmt.Errorf("failed to list logs for habit %s: %w", habitID, err)
	}
	if len(logs) == 0 {
		return nil
	}

	result := streak.Calculate(logs, today, yesterday)
	if err := s.habitRepo.UpdateStreaks(ctx, habitID, result.Current, result.Best); err != nil {
		return fmt.Errorf("failed to update streaks for habit %s: %w", habitID, err)
	}
	metrics.StreakUpdatesTotal.Inc()
	return nil
}

// RunBackfillAndRecompute runs the backfill pass and then, whatever its
// outcome, the streak pass. Failures are logged and returned joined.
func (s *StreakService) RunBackfillAndRecompute(ctx context.Context, userID string, loc *time.Location) error {
	if userID == "" {
		return ErrUserRequired
	}

	inserted, backfillErr := s.BackfillMissedLogs(ctx, userID, loc)
	metrics.TrackPass("backfill", backfillErr)
	if backfillErr != nil {
		s.log.Warn("backfill pass failed",
			zap.String("user_id", userID),
			zap.Int("inserted", inserted),
			zap.Error(backfillErr),
		)
	} else if inserted > 0 {
		s.log.Debug("backfilled missed logs", zap.String("user_id", userID), zap.Int("inserted", inserted))
	}

	streakErr := s.RecomputeStreaks(ctx, userID, loc)
	metrics.TrackPass("streaks", streakErr)
	if streakErr != nil {
		s.log.Warn("streak pass failed", zap.String("user_id", userID), zap.Error(streakErr))
	}

	return errors.Join(backfillErr, streakErr)
}
