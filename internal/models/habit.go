package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
	FrequencyCustom HabitFrequency = "custom"
)

// Valid reports whether f is one of the known frequencies.
func (f HabitFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

type Habit struct {
	ID            string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Frequency     HabitFrequency `gorm:"type:varchar(20);not null" json:"frequency"`
	Icon          string         `gorm:"type:varchar(32)" json:"icon"`
	Color         string         `gorm:"type:varchar(16)" json:"color"`
	CurrentStreak int            `gorm:"not null" json:"current_streak"`
	BestStreak    int            `gorm:"not null" json:"best_streak"`
	IsActive      bool           `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Logs []HabitLog `gorm:"foreignKey:HabitID" json:"-"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
