package repository

import (
	"context"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormHabitLogRepository is a GORM implementation of HabitLogRepository
type GormHabitLogRepository struct {
	db *gorm.DB
}

// NewHabitLogRepository creates a new HabitLogRepository
func NewHabitLogRepository(db *gorm.DB) HabitLogRepository {
	return &GormHabitLogRepository{db: db}
}

func (r *GormHabitLogRepository) ListRecent(ctx context.Context, habitID string, limit int) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// FindByDate returns gorm.ErrRecordNotFound when the habit has no log for date
func (r *GormHabitLogRepository) FindByDate(ctx context.Context, habitID, date string) (*models.HabitLog, error) {
	var log models.HabitLog
	if err := r.db.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, date).
		First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *GormHabitLogRepository) Create(ctx context.Context, log *models.HabitLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormHabitLogRepository) Update(ctx context.Context, log *models.HabitLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *GormHabitLogRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Where("date = ?", date).
		Find(&logs).Error
	return logs, err
}

func (r *GormHabitLogRepository) List(ctx context.Context, filter HabitLogFilter) ([]models.HabitLog, error) {
	query := r.db.WithContext(ctx).Scopes(database.OwnedBy(filter.UserID))

	if filter.HabitID != "" {
		query = query.Where("habit_id = ?", filter.HabitID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != "" {
		query = query.Where("date >= ?", filter.FromDate)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var logs []models.HabitLog
	err := query.Preload("Habit").Order("date DESC").Order("created_at DESC").Find(&logs).Error
	return logs, err
}

func (r *GormHabitLogRepository) SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error) {
	return softDeleteOwned(ctx, r.db, &models.HabitLog{}, userID, at)
}

// Restore undeletes the given logs of userID that were deleted at or after
// since. A live log for the same habit and day wins: the deleted copy stays
// deleted. When several deleted candidates share a day, the most recently
// deleted one is restored.
func (r *GormHabitLogRepository) Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	restored := []string{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.HabitLog
		if err := tx.Unscoped().
			Where("user_id = ? AND id IN ? AND deleted_at IS NOT NULL AND deleted_at >= ?", userID, ids, since).
			Where("NOT EXISTS (SELECT 1 FROM habit_logs live WHERE live.habit_id = habit_logs.habit_id AND live.date = habit_logs.date AND live.deleted_at IS NULL)").
			Order("deleted_at DESC").
			Find(&candidates).Error; err != nil {
			return err
		}

		seen := make(map[string]bool, len(candidates))
		for _, log := range candidates {
			key := log.HabitID + "|" + log.Date
			if seen[key] {
				continue
			}
			seen[key] = true
			restored = append(restored, log.ID)
		}
		if len(restored) == 0 {
			return nil
		}
		return tx.Unscoped().Model(&models.HabitLog{}).Where("id IN ?", restored).Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}
