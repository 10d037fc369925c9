package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/metrics"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/progress"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
)

// TodaySummary is everything the today view needs for one calendar day.
type TodaySummary struct {
	Date     string
	Habits   []models.Habit
	Logs     map[string]models.HabitLog
	Tasks    []models.Task
	Progress progress.Snapshot
}

// ProgressService loads a user's day and derives its completion percentage.
type ProgressService struct {
	habitRepo repository.HabitRepository
	logRepo   repository.HabitLogRepository
	taskRepo  repository.TaskRepository
	streaks   *StreakService
	notifier  *events.Notifier
	now       func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	habitRepo repository.HabitRepository,
	logRepo repository.HabitLogRepository,
	taskRepo repository.TaskRepository,
	streaks *StreakService,
	notifier *events.Notifier,
) *ProgressService {
	return &ProgressService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		taskRepo:  taskRepo,
		streaks:   streaks,
		notifier:  notifier,
		now:       time.Now,
	}
}

// LoadToday runs backfill and streak maintenance, then summarizes the day.
// Maintenance failures are logged by the streak service and do not fail the
// load.
func (s *ProgressService) LoadToday(ctx context.Context, userID string, loc *time.Location) (*TodaySummary, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if s.streaks != nil {
		_ = s.streaks.RunBackfillAndRecompute(ctx, userID, loc)
	}
	return s.Summarize(ctx, userID, loc)
}

// Summarize reads active habits, today's logs and all tasks, computes the
// progress snapshot and re-emits it to subscribers.
func (s *ProgressService) Summarize(ctx context.Context, userID string, loc *time.Location) (*TodaySummary, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	today := utils.Today(s.now(), loc)

	habits, err := s.habitRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active habits: %w", err)
	}

	logs, err := s.logRepo.ListByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's logs: %w", err)
	}

	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	byHabit := progress.LogsByHabit(logs)
	snapshot := progress.Compute(habits, byHabit, tasks)

	metrics.ProgressPercentage.Observe(float64(snapshot.Percentage))
	s.notifier.ProgressUpdated(ctx, userID, snapshot.Percentage)

	return &TodaySummary{
		Date:     today,
		Habits:   habits,
		Logs:     byHabit,
		Tasks:    tasks,
		Progress: snapshot,
	}, nil
}
