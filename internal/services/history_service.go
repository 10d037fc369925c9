package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/progress"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidRange         = errors.New("range must be week, month or all")
	ErrHistoryEntryNotFound = errors.New("history entry not found")
)

type HistoryRange string

const (
	RangeWeek  HistoryRange = "week"
	RangeMonth HistoryRange = "month"
	RangeAll   HistoryRange = "all"
)

func (r HistoryRange) Valid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeAll:
		return true
	}
	return false
}

// HistoryQuery selects a window of history for one user.
type HistoryQuery struct {
	UserID   string
	Range    HistoryRange
	Status   *models.LogStatus
	Location *time.Location
}

// HistoryStats summarizes habit logs in the window.
type HistoryStats struct {
	Completed      int `json:"completed"`
	Missed         int `json:"missed"`
	Total          int `json:"total"`
	CompletionRate int `json:"completion_rate"`
}

// HabitHistory is a window of habit logs plus its stats. Stats ignore the
// status filter.
type HabitHistory struct {
	Logs  []models.HabitLog
	Stats HistoryStats
}

// HistoryService reads archived habit logs and completed tasks
type HistoryService struct {
	logRepo     repository.HabitLogRepository
	historyRepo repository.TaskHistoryRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(logRepo repository.HabitLogRepository, historyRepo repository.TaskHistoryRepository, profileRepo repository.ProfileRepository) *HistoryService {
	return &HistoryService{
		logRepo:     logRepo,
		historyRepo: historyRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// windowStart returns the earliest instant shown for query, combining the
// range with the profile's history fence. Nil means unbounded.
func (s *HistoryService) windowStart(ctx context.Context, query HistoryQuery) (*time.Time, error) {
	if query.UserID == "" {
		return nil, ErrUserRequired
	}
	if query.Range == "" {
		query.Range = RangeAll
	}
	if !query.Range.Valid() {
		return nil, ErrInvalidRange
	}

	var start *time.Time
	now := s.now()
	switch query.Range {
	case RangeWeek:
		t := now.AddDate(0, 0, -7)
		start = &t
	case RangeMonth:
		t := now.AddDate(0, -1, 0)
		start = &t
	}

	profile, err := s.profileRepo.FindByID(ctx, query.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil && profile.HistoryStartedAt != nil {
		if start == nil || profile.HistoryStartedAt.After(*start) {
			fence := *profile.HistoryStartedAt
			start = &fence
		}
	}
	return start, nil
}

// HabitLogs lists habit logs in the window, most recent day first
func (s *HistoryService) HabitLogs(ctx context.Context, query HistoryQuery) (*HabitHistory, error) {
	if query.Status != nil && !query.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	start, err := s.windowStart(ctx, query)
	if err != nil {
		return nil, err
	}

	filter := repository.HabitLogFilter{
		UserID: query.UserID,
		Limit:  constants.HistoryLimit,
	}
	if start != nil {
		filter.FromDate = utils.DayOf(*start, query.Location)
	}

	all, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}

	result := &HabitHistory{Logs: make([]models.HabitLog, 0, len(all))}
	for _, log := range all {
		switch log.Status {
		case models.LogStatusCompleted:
			result.Stats.Completed++
		case models.LogStatusMissed:
			result.Stats.Missed++
		}
		if query.Status == nil || log.Status == *query.Status {
			result.Logs = append(result.Logs, log)
		}
	}
	result.Stats.Total = len(all)
	result.Stats.CompletionRate = progress.Percentage(result.Stats.Completed, result.Stats.Total)

	return result, nil
}

// TaskHistory lists completed-task snapshots in the window, most recent first
func (s *HistoryService) TaskHistory(ctx context.Context, query HistoryQuery) ([]models.TaskHistory, error) {
	start, err := s.windowStart(ctx, query)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.List(ctx, repository.TaskHistoryFilter{
		UserID:        query.UserID,
		CompletedFrom: start,
		Limit:         constants.HistoryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	return history, nil
}

// DeleteTaskHistory soft deletes one snapshot
func (s *HistoryService) DeleteTaskHistory(ctx context.Context, userID, id string) error {
	if err := s.historyRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryEntryNotFound
		}
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}
