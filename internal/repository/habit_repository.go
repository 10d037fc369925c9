package repository

import (
	"context"

	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormHabitRepository is a GORM implementation of HabitRepository
type GormHabitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new HabitRepository
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &GormHabitRepository{db: db}
}

func (r *GormHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *GormHabitRepository) CreateBatch(ctx context.Context, habits []models.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&habits).Error
}

func (r *GormHabitRepository) FindByID(ctx context.Context, userID, id string) (*models.Habit, error) {
	var habit models.Habit
	if err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Where("id = ?", id).
		First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

func (r *GormHabitRepository) ListByUser(ctx context.Context, userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&habits).Error
	return habits, err
}

func (r *GormHabitRepository) ListActive(ctx context.Context, userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&habits).Error
	return habits, err
}

func (r *GormHabitRepository) ListActiveDaily(ctx context.Context, userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Where("is_active = ? AND frequency = ?", true, models.FrequencyDaily).
		Order("created_at ASC").
		Find(&habits).Error
	return habits, err
}

func (r *GormHabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	return r.db.WithContext(ctx).Save(habit).Error
}

func (r *GormHabitRepository) UpdateStreaks(ctx context.Context, habitID string, current, best int) error {
	return r.db.WithContext(ctx).Model(&models.Habit{}).
		Where("id = ?", habitID).
		Updates(map[string]any{
			"current_streak": current,
			"best_streak":    best,
		}).Error
}

func (r *GormHabitRepository) ResetStreaks(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Habit{}).Scopes(database.OwnedBy(userID)).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Habit{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"current_streak": 0, "best_streak": 0}).Error
	})
	return ids, err
}

// Delete soft deletes the habit and its logs in one transaction
func (r *GormHabitRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ? AND user_id = ?", id, userID).Delete(&models.HabitLog{}).Error; err != nil {
			return err
		}

		result := tx.Scopes(database.OwnedBy(userID)).Where("id = ?", id).Delete(&models.Habit{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormHabitRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Habit{}).Scopes(database.OwnedBy(userID)).Count(&count).Error
	return count, err
}

func (r *GormHabitRepository) CountWithDeleted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Habit{}).Scopes(database.OwnedBy(userID)).Count(&count).Error
	return count, err
}
