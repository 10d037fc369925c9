package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LogStatus string

const (
	LogStatusCompleted LogStatus = "completed"
	LogStatusMissed    LogStatus = "missed"
	LogStatusSkipped   LogStatus = "skipped"
)

func (s LogStatus) Valid() bool {
	switch s {
	case LogStatusCompleted, LogStatusMissed, LogStatusSkipped:
		return true
	}
	return false
}

// HabitLog records a habit's status on one calendar day. (HabitID, Date) is the
// natural key; it is not enforced by a unique index.
type HabitLog struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	HabitID     string         `gorm:"type:varchar(36);not null;index:idx_habit_logs_habit_date,priority:1" json:"habit_id"`
	UserID      string         `gorm:"type:varchar(64);not null;index:idx_habit_logs_user_date,priority:1" json:"user_id"`
	Date        string         `gorm:"type:varchar(10);not null;index:idx_habit_logs_habit_date,priority:2;index:idx_habit_logs_user_date,priority:2" json:"date"`
	Status      LogStatus      `gorm:"type:varchar(20);not null" json:"status"`
	CompletedAt *time.Time     `json:"completed_at"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Habit *Habit `gorm:"foreignKey:HabitID" json:"habit,omitempty"`
}

func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
