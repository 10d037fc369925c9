package models

import "time"

const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// Preferences is the free-form settings blob stored with a profile.
type Preferences map[string]any

// Theme returns the stored theme, defaulting to dark.
func (p Preferences) Theme() string {
	if theme, ok := p["theme"].(string); ok && theme != "" {
		return theme
	}
	return ThemeDark
}

func (p Preferences) Timezone() string {
	tz, _ := p["timezone"].(string)
	return tz
}

// Profile holds per-user settings. ID is the identity provider's user id.
type Profile struct {
	ID               string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email            string      `gorm:"type:varchar(255)" json:"email"`
	FullName         *string     `gorm:"type:varchar(255)" json:"full_name"`
	Username         *string     `gorm:"type:varchar(50)" json:"username"`
	Preferences      Preferences `gorm:"serializer:json;type:text" json:"preferences"`
	HistoryStartedAt *time.Time  `json:"history_started_at"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// All returns every model managed by auto-migration.
func All() []any {
	return []any{
		&Profile{},
		&Habit{},
		&HabitLog{},
		&Task{},
		&TaskHistory{},
	}
}
