package repository

import (
	"context"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskHistoryRepository is a GORM implementation of TaskHistoryRepository
type GormTaskHistoryRepository struct {
	db *gorm.DB
}

// NewTaskHistoryRepository creates a new TaskHistoryRepository
func NewTaskHistoryRepository(db *gorm.DB) TaskHistoryRepository {
	return &GormTaskHistoryRepository{db: db}
}

func (r *GormTaskHistoryRepository) List(ctx context.Context, filter TaskHistoryFilter) ([]models.TaskHistory, error) {
	query := r.db.WithContext(ctx).Scopes(database.OwnedBy(filter.UserID))
	if filter.CompletedFrom != nil {
		query = query.Where("completed_at >= ?", *filter.CompletedFrom)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var history []models.TaskHistory
	err := query.Order("completed_at DESC").Find(&history).Error
	return history, err
}

func (r *GormTaskHistoryRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).Where("id = ?", id).Delete(&models.TaskHistory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTaskHistoryRepository) SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error) {
	return softDeleteOwned(ctx, r.db, &models.TaskHistory{}, userID, at)
}

func (r *GormTaskHistoryRepository) Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error) {
	return restoreOwned(ctx, r.db, &models.TaskHistory{}, userID, ids, since)
}
