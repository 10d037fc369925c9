package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskHistory is an archived snapshot of a task taken when it was completed.
// CreatedAt carries the task's own creation time; ArchivedAt is when the
// snapshot was written.
type TaskHistory struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	TaskID      string         `gorm:"type:varchar(36);not null;index" json:"task_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate     *string        `gorm:"type:varchar(10)" json:"due_date"`
	CompletedAt time.Time      `gorm:"not null;index" json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	ArchivedAt  time.Time      `gorm:"autoCreateTime" json:"archived_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TaskHistory) TableName() string { return "task_history" }

func (h *TaskHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// SnapshotTask builds the history row for a task completed at completedAt.
func SnapshotTask(task Task, completedAt time.Time) TaskHistory {
	return TaskHistory{
		UserID:      task.UserID,
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CompletedAt: completedAt,
		CreatedAt:   task.CreatedAt,
	}
}
