package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/progress"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitInactive    = errors.New("habit is not active")
	ErrInvalidFrequency = errors.New("frequency must be daily, weekly or custom")
)

const (
	defaultHabitIcon  = "target"
	defaultHabitColor = "#3b82f6"
)

var sampleHabits = []models.Habit{
	{Title: "Morning Exercise", Description: "Start your day with 30 minutes of physical activity", Icon: "💪", Color: "#3b82f6"},
	{Title: "Read for 30 minutes", Description: "Expand your knowledge by reading daily", Icon: "📚", Color: "#10b981"},
	{Title: "Drink 8 glasses of water", Description: "Stay hydrated throughout the day", Icon: "💧", Color: "#06b6d4"},
	{Title: "Meditation", Description: "Take 10 minutes for mindfulness and relaxation", Icon: "🧘", Color: "#8b5cf6"},
	{Title: "Journal Writing", Description: "Reflect on your day and write down thoughts", Icon: "✍️", Color: "#f59e0b"},
}

// HabitService handles habit business logic
type HabitService struct {
	habitRepo   repository.HabitRepository
	logRepo     repository.HabitLogRepository
	streaks     *StreakService
	progress    *ProgressService
	notifier    *events.Notifier
	seedSamples bool
	log         *zap.Logger
	now         func() time.Time
}

// NewHabitService creates a new HabitService
func NewHabitService(
	habitRepo repository.HabitRepository,
	logRepo repository.HabitLogRepository,
	streaks *StreakService,
	progress *ProgressService,
	notifier *events.Notifier,
	seedSamples bool,
	log *zap.Logger,
) *HabitService {
	return &HabitService{
		habitRepo:   habitRepo,
		logRepo:     logRepo,
		streaks:     streaks,
		progress:    progress,
		notifier:    notifier,
		seedSamples: seedSamples,
		log:         log,
		now:         time.Now,
	}
}

// CreateHabitInput represents input for creating a habit
type CreateHabitInput struct {
	UserID      string
	Title       string
	Description string
	Frequency   models.HabitFrequency
	Icon        string
	Color       string
	Location    *time.Location
}

// UpdateHabitInput represents input for updating a habit
type UpdateHabitInput struct {
	Title       *string
	Description *string
	Frequency   *models.HabitFrequency
	Icon        *string
	Color       *string
}

// ToggleResult is the outcome of toggling today's log.
type ToggleResult struct {
	Habit    *models.Habit
	Log      *models.HabitLog
	Progress *progress.Snapshot
}

// ListHabits returns the user's habits, newest first. A user who has never
// had a habit gets the sample set when seeding is enabled.
func (s *HabitService) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	if len(habits) > 0 || !s.seedSamples {
		return habits, nil
	}

	seeded, err := s.seed(ctx, userID)
	if err != nil {
		s.log.Warn("failed to create sample habits", zap.String("user_id", userID), zap.Error(err))
		return habits, nil
	}
	if !seeded {
		return habits, nil
	}
	return s.habitRepo.ListByUser(ctx, userID)
}

func (s *HabitService) seed(ctx context.Context, userID string) (bool, error) {
	count, err := s.habitRepo.CountWithDeleted(ctx, userID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	habits := make([]models.Habit, 0, len(sampleHabits))
	for _, sample := range sampleHabits {
		sample.UserID = userID
		sample.Frequency = models.FrequencyDaily
		sample.IsActive = true
		habits = append(habits, sample)
	}
	if err := s.habitRepo.CreateBatch(ctx, habits); err != nil {
		return false, err
	}
	return true, nil
}

func (s *HabitService) GetHabit(ctx context.Context, userID, id string) (*models.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	return habit, nil
}

// CreateHabit creates an active habit, defaulting to a daily frequency
func (s *HabitService) CreateHabit(ctx context.Context, input CreateHabitInput) (*models.Habit, error) {
	if input.UserID == "" {
		return nil, ErrUserRequired
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Frequency == "" {
		input.Frequency = models.FrequencyDaily
	}
	if !input.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}
	if input.Icon == "" {
		input.Icon = defaultHabitIcon
	}
	if input.Color == "" {
		input.Color = defaultHabitColor
	}

	habit := &models.Habit{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Frequency:   input.Frequency,
		Icon:        input.Icon,
		Color:       input.Color,
		IsActive:    true,
	}
	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.refreshProgress(ctx, input.UserID, input.Location)
	return habit, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, userID, id string, input UpdateHabitInput) (*models.Habit, error) {
	habit, err := s.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		habit.Title = title
	}
	if input.Description != nil {
		habit.Description = *input.Description
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, ErrInvalidFrequency
		}
		habit.Frequency = *input.Frequency
	}
	if input.Icon != nil {
		habit.Icon = *input.Icon
	}
	if input.Color != nil {
		habit.Color = *input.Color
	}

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// SetActive pauses or resumes a habit. Paused habits drop out of backfill,
// streak maintenance and progress.
func (s *HabitService) SetActive(ctx context.Context, userID, id string, active bool, loc *time.Location) (*models.Habit, error) {
	habit, err := s.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if habit.IsActive == active {
		return habit, nil
	}

	habit.IsActive = active
	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	s.refreshProgress(ctx, userID, loc)
	return habit, nil
}

// DeleteHabit soft deletes a habit together with its logs
func (s *HabitService) DeleteHabit(ctx context.Context, userID, id string, loc *time.Location) error {
	if err := s.habitRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	s.refreshProgress(ctx, userID, loc)
	return nil
}

// refreshProgress re-emits today's progress after the habit set changed
func (s *HabitService) refreshProgress(ctx context.Context, userID string, loc *time.Location) {
	if s.progress == nil {
		return
	}
	if _, err := s.progress.Summarize(ctx, userID, loc); err != nil {
		s.log.Warn("failed to refresh progress", zap.String("user_id", userID), zap.Error(err))
	}
}

// ToggleToday flips today's log: no log or a non-completed log becomes
// completed, a completed log becomes missed. Streaks and progress are
// refreshed afterwards.
func (s *HabitService) ToggleToday(ctx context.Context, userID, id string, loc *time.Location) (*ToggleResult, error) {
	habit, err := s.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !habit.IsActive {
		return nil, ErrHabitInactive
	}

	now := s.now()
	today := utils.Today(now, loc)

	log, err := s.logRepo.FindByDate(ctx, habit.ID, today)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log = &models.HabitLog{
			HabitID:     habit.ID,
			UserID:      userID,
			Date:        today,
			Status:      models.LogStatusCompleted,
			CompletedAt: &now,
		}
		if err := s.logRepo.Create(ctx, log); err != nil {
			return nil, fmt.Errorf("failed to create log: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to find today's log: %w", err)
	default:
		if log.Status == models.LogStatusCompleted {
			log.Status = models.LogStatusMissed
			log.CompletedAt = nil
		} else {
			log.Status = models.LogStatusCompleted
			log.CompletedAt = &now
		}
		if err := s.logRepo.Update(ctx, log); err != nil {
			return nil, fmt.Errorf("failed to update log: %w", err)
		}
	}

	if s.streaks != nil {
		if err := s.streaks.RecomputeHabit(ctx, habit.ID, loc); err != nil {
			s.log.Warn("failed to recompute streaks", zap.String("user_id", userID), zap.String("habit_id", habit.ID), zap.Error(err))
		} else if reloaded, err := s.habitRepo.FindByID(ctx, userID, habit.ID); err == nil {
			habit = reloaded
		}
	}

	result := &ToggleResult{Habit: habit, Log: log}
	if s.progress != nil {
		summary, err := s.progress.Summarize(ctx, userID, loc)
		if err != nil {
			s.log.Warn("failed to refresh progress", zap.String("user_id", userID), zap.Error(err))
		} else {
			result.Progress = &summary.Progress
		}
	}

	if log.Status == models.LogStatusCompleted {
		s.notifier.ItemCompleted(ctx, userID, events.ItemHabit, habit.ID)
	}

	return result, nil
}
