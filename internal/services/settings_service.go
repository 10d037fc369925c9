package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidTheme    = errors.New("theme must be dark, light or system")
	ErrInvalidTimezone = errors.New("timezone must be a valid IANA zone name")
	ErrUsernameTooLong = errors.New("username must be at most 50 characters")
)

// SettingsService manages profiles and the destructive reset and restore
// operations. Resets are soft deletes that can be undone within
// constants.RestoreGracePeriod.
type SettingsService struct {
	profileRepo repository.ProfileRepository
	habitRepo   repository.HabitRepository
	logRepo     repository.HabitLogRepository
	taskRepo    repository.TaskRepository
	historyRepo repository.TaskHistoryRepository
	streaks     *StreakService
	progress    *ProgressService
	log         *zap.Logger
	now         func() time.Time
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	profileRepo repository.ProfileRepository,
	habitRepo repository.HabitRepository,
	logRepo repository.HabitLogRepository,
	taskRepo repository.TaskRepository,
	historyRepo repository.TaskHistoryRepository,
	streaks *StreakService,
	progress *ProgressService,
	log *zap.Logger,
) *SettingsService {
	return &SettingsService{
		profileRepo: profileRepo,
		habitRepo:   habitRepo,
		logRepo:     logRepo,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		streaks:     streaks,
		progress:    progress,
		log:         log,
		now:         time.Now,
	}
}

// UpdateProfileInput holds the editable profile fields. Preferences are
// merged key by key into the stored blob.
type UpdateProfileInput struct {
	FullName          *string
	Username          *string
	Theme             *string
	Timezone          *string
	Preferences       map[string]any
	HistoryStartedAt  *time.Time
	ClearHistoryFence bool
}

// TaskResetResult lists what ResetTasks soft deleted.
type TaskResetResult struct {
	TaskIDs        []string  `json:"task_ids"`
	TaskHistoryIDs []string  `json:"task_history_ids"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// HabitResetResult lists what ResetHabitProgress soft deleted or zeroed.
type HabitResetResult struct {
	HabitLogIDs     []string  `json:"habit_log_ids"`
	UpdatedHabitIDs []string  `json:"updated_habit_ids"`
	DeletedAt       time.Time `json:"deleted_at"`
}

// RestoreInput names the rows to undelete.
type RestoreInput struct {
	TaskIDs        []string
	TaskHistoryIDs []string
	HabitLogIDs    []string
}

// RestoreResult lists the rows actually restored.
type RestoreResult struct {
	TaskIDs        []string `json:"task_ids"`
	TaskHistoryIDs []string `json:"task_history_ids"`
	HabitLogIDs    []string `json:"habit_log_ids"`
}

// GetProfile returns the user's profile, creating it on first access
func (s *SettingsService) GetProfile(ctx context.Context, userID, email string) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	profile := &models.Profile{
		ID:          userID,
		Email:       email,
		Preferences: models.Preferences{"theme": models.ThemeDark},
	}
	if err := s.profileRepo.FirstOrCreate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *SettingsService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			profile.FullName = nil
		} else {
			profile.FullName = &name
		}
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) > 50 {
			return nil, ErrUsernameTooLong
		}
		if username == "" {
			profile.Username = nil
		} else {
			profile.Username = &username
		}
	}

	prefs := models.Preferences{}
	for k, v := range profile.Preferences {
		prefs[k] = v
	}
	for k, v := range input.Preferences {
		prefs[k] = v
	}
	if input.Theme != nil {
		switch *input.Theme {
		case models.ThemeDark, models.ThemeLight, models.ThemeSystem:
			prefs["theme"] = *input.Theme
		default:
			return nil, ErrInvalidTheme
		}
	}
	if input.Timezone != nil {
		if *input.Timezone == "" {
			delete(prefs, "timezone")
		} else if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return nil, ErrInvalidTimezone
		} else {
			prefs["timezone"] = *input.Timezone
		}
	}
	profile.Preferences = prefs

	if input.ClearHistoryFence {
		profile.HistoryStartedAt = nil
	} else if input.HistoryStartedAt != nil {
		fence := *input.HistoryStartedAt
		profile.HistoryStartedAt = &fence
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// StartHistoryNow hides every record older than now from history views
func (s *SettingsService) StartHistoryNow(ctx context.Context, userID string) (*models.Profile, error) {
	now := s.now()
	return s.UpdateProfile(ctx, userID, UpdateProfileInput{HistoryStartedAt: &now})
}

// Location resolves the user's calendar: the stored timezone preference, or
// fallback when none is set or it no longer parses.
func (s *SettingsService) Location(ctx context.Context, userID string, fallback *time.Location) *time.Location {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("failed to load timezone preference", zap.String("user_id", userID), zap.Error(err))
		}
		return fallback
	}
	return utils.LoadLocation(profile.Preferences.Timezone(), fallback)
}

// ResetTasks soft deletes every task and task history row of the user
func (s *SettingsService) ResetTasks(ctx context.Context, userID string, loc *time.Location) (*TaskResetResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	result, err := s.resetTasks(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.refreshProgress(ctx, userID, loc)
	return result, nil
}

func (s *SettingsService) resetTasks(ctx context.Context, userID string, at time.Time) (*TaskResetResult, error) {
	historyIDs, err := s.historyRepo.SoftDeleteByUser(ctx, userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reset task history: %w", err)
	}
	taskIDs, err := s.taskRepo.SoftDeleteByUser(ctx, userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reset tasks: %w", err)
	}

	return &TaskResetResult{
		TaskIDs:        nonNil(taskIDs),
		TaskHistoryIDs: nonNil(historyIDs),
		DeletedAt:      at,
	}, nil
}

// ResetHabitProgress soft deletes every habit log and zeroes all streaks.
// The habits themselves are kept.
func (s *SettingsService) ResetHabitProgress(ctx context.Context, userID string, loc *time.Location) (*HabitResetResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	result, err := s.resetHabitProgress(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.refreshProgress(ctx, userID, loc)
	return result, nil
}

func (s *SettingsService) resetHabitProgress(ctx context.Context, userID string, at time.Time) (*HabitResetResult, error) {
	logIDs, err := s.logRepo.SoftDeleteByUser(ctx, userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reset habit logs: %w", err)
	}
	habitIDs, err := s.habitRepo.ResetStreaks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset streaks: %w", err)
	}

	return &HabitResetResult{
		HabitLogIDs:     nonNil(logIDs),
		UpdatedHabitIDs: nonNil(habitIDs),
		DeletedAt:       at,
	}, nil
}

// ResetAll resets tasks and then habit progress with one deletion time
func (s *SettingsService) ResetAll(ctx context.Context, userID string, loc *time.Location) (*TaskResetResult, *HabitResetResult, error) {
	if userID == "" {
		return nil, nil, ErrUserRequired
	}

	at := s.now()
	tasks, err := s.resetTasks(ctx, userID, at)
	if err != nil {
		return nil, nil, err
	}
	habits, err := s.resetHabitProgress(ctx, userID, at)
	s.refreshProgress(ctx, userID, loc)
	if err != nil {
		return tasks, nil, err
	}
	return tasks, habits, nil
}

// ClearHistory soft deletes habit logs and task history, leaving tasks and
// streak values in place until the next maintenance pass.
func (s *SettingsService) ClearHistory(ctx context.Context, userID string, loc *time.Location) (*RestoreResult, time.Time, error) {
	if userID == "" {
		return nil, time.Time{}, ErrUserRequired
	}

	at := s.now()
	historyIDs, err := s.historyRepo.SoftDeleteByUser(ctx, userID, at)
	if err != nil {
		return nil, at, fmt.Errorf("failed to clear task history: %w", err)
	}
	logIDs, err := s.logRepo.SoftDeleteByUser(ctx, userID, at)
	if err != nil {
		return nil, at, fmt.Errorf("failed to clear habit logs: %w", err)
	}
	s.refreshProgress(ctx, userID, loc)

	return &RestoreResult{
		TaskIDs:        []string{},
		TaskHistoryIDs: nonNil(historyIDs),
		HabitLogIDs:    nonNil(logIDs),
	}, at, nil
}

// Restore undeletes the named rows when they were deleted within the grace
// period. Restoring habit logs triggers a streak recompute.
func (s *SettingsService) Restore(ctx context.Context, userID string, input RestoreInput, loc *time.Location) (*RestoreResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	since := s.now().Add(-constants.RestoreGracePeriod)
	result := &RestoreResult{}
	var err error

	if result.TaskIDs, err = s.taskRepo.Restore(ctx, userID, input.TaskIDs, since); err != nil {
		return nil, fmt.Errorf("failed to restore tasks: %w", err)
	}
	if result.TaskHistoryIDs, err = s.historyRepo.Restore(ctx, userID, input.TaskHistoryIDs, since); err != nil {
		return nil, fmt.Errorf("failed to restore task history: %w", err)
	}
	if result.HabitLogIDs, err = s.logRepo.Restore(ctx, userID, input.HabitLogIDs, since); err != nil {
		return nil, fmt.Errorf("failed to restore habit logs: %w", err)
	}

	result.TaskIDs = nonNil(result.TaskIDs)
	result.TaskHistoryIDs = nonNil(result.TaskHistoryIDs)
	result.HabitLogIDs = nonNil(result.HabitLogIDs)

	if len(result.HabitLogIDs) > 0 && s.streaks != nil {
		if err := s.streaks.RecomputeStreaks(ctx, userID, loc); err != nil {
			s.log.Warn("failed to recompute streaks after restore", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if len(result.TaskIDs) > 0 || len(result.HabitLogIDs) > 0 {
		s.refreshProgress(ctx, userID, loc)
	}
	return result, nil
}

// refreshProgress re-emits today's progress after a bulk change
func (s *SettingsService) refreshProgress(ctx context.Context, userID string, loc *time.Location) {
	if s.progress == nil {
		return
	}
	if _, err := s.progress.Summarize(ctx, userID, loc); err != nil {
		s.log.Warn("failed to refresh progress", zap.String("user_id", userID), zap.Error(err))
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
