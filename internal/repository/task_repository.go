package repository

import (
	"context"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

// FindByID finds a task by ID within the owner's rows
func (r *GormTaskRepository) FindByID(ctx context.Context, userID, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(database.OwnedBy(filter.UserID))

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	} else {
		listQuery = listQuery.Order("tasks.created_at DESC")
	}

	page := utils.PaginationParams{Page: filter.Page, PageSize: filter.PageSize}
	if err := listQuery.Scopes(database.Paginate(page)).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// CompleteWithSnapshot saves the task and inserts its history snapshot in one transaction
func (r *GormTaskRepository) CompleteWithSnapshot(ctx context.Context, task *models.Task, snapshot *models.TaskHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return tx.Create(snapshot).Error
	})
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Scopes(database.OwnedBy(userID)).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTaskRepository) SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error) {
	return softDeleteOwned(ctx, r.db, &models.Task{}, userID, at)
}

func (r *GormTaskRepository) Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error) {
	return restoreOwned(ctx, r.db, &models.Task{}, userID, ids, since)
}

func (r *GormTaskRepository) CountWithDeleted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Task{}).Scopes(database.OwnedBy(userID)).Count(&count).Error
	return count, err
}
