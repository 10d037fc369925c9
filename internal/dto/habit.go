package dto

import (
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/progress"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// HabitDTO represents a habit in API responses
type HabitDTO struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Frequency     models.HabitFrequency `json:"frequency"`
	Icon          string                `json:"icon"`
	Color         string                `json:"color"`
	CurrentStreak int                   `json:"current_streak"`
	BestStreak    int                   `json:"best_streak"`
	IsActive      bool                  `json:"is_active"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// HabitSummaryDTO is the habit attached to a log in history listings
type HabitSummaryDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// HabitLogDTO represents a habit log in API responses
type HabitLogDTO struct {
	ID          string           `json:"id"`
	HabitID     string           `json:"habit_id"`
	Date        string           `json:"date"`
	Status      models.LogStatus `json:"status"`
	CompletedAt *time.Time       `json:"completed_at"`
	Notes       string           `json:"notes"`
	Habit       *HabitSummaryDTO `json:"habit,omitempty"`
}

// ProgressDTO is a progress snapshot plus the line shown next to the ring
type ProgressDTO struct {
	progress.Snapshot
	Message string `json:"message"`
}

// TodayHabitDTO is an active habit with its status for today, if any
type TodayHabitDTO struct {
	HabitDTO
	TodayStatus *models.LogStatus `json:"today_status"`
}

// TodayResponse is the payload of the today view
type TodayResponse struct {
	Date     string          `json:"date"`
	Habits   []TodayHabitDTO `json:"habits"`
	Tasks    []TaskDTO       `json:"tasks"`
	Progress ProgressDTO     `json:"progress"`
}

// ToggleResponse is returned after toggling today's log
type ToggleResponse struct {
	Habit    HabitDTO     `json:"habit"`
	Log      HabitLogDTO  `json:"log"`
	Progress *ProgressDTO `json:"progress,omitempty"`
}

func ToHabitDTO(habit models.Habit) HabitDTO {
	return HabitDTO{
		ID:            habit.ID,
		Title:         habit.Title,
		Description:   habit.Description,
		Frequency:     habit.Frequency,
		Icon:          habit.Icon,
		Color:         habit.Color,
		CurrentStreak: habit.CurrentStreak,
		BestStreak:    habit.BestStreak,
		IsActive:      habit.IsActive,
		CreatedAt:     habit.CreatedAt,
		UpdatedAt:     habit.UpdatedAt,
	}
}

func ToHabitDTOs(habits []models.Habit) []HabitDTO {
	items := make([]HabitDTO, len(habits))
	for i, habit := range habits {
		items[i] = ToHabitDTO(habit)
	}
	return items
}

// ToHabitLogDTO converts a log, including its habit when preloaded
func ToHabitLogDTO(log models.HabitLog) HabitLogDTO {
	dto := HabitLogDTO{
		ID:          log.ID,
		HabitID:     log.HabitID,
		Date:        log.Date,
		Status:      log.Status,
		CompletedAt: log.CompletedAt,
		Notes:       log.Notes,
	}
	if log.Habit != nil {
		dto.Habit = &HabitSummaryDTO{
			ID:    log.Habit.ID,
			Title: log.Habit.Title,
			Icon:  log.Habit.Icon,
			Color: log.Habit.Color,
		}
	}
	return dto
}

func ToProgressDTO(snapshot progress.Snapshot) ProgressDTO {
	return ProgressDTO{
		Snapshot: snapshot,
		Message:  progress.Message(snapshot.Percentage),
	}
}

// ToTodayResponse converts a day summary
func ToTodayResponse(summary *services.TodaySummary) TodayResponse {
	habits := make([]TodayHabitDTO, len(summary.Habits))
	for i, habit := range summary.Habits {
		habits[i] = TodayHabitDTO{HabitDTO: ToHabitDTO(habit)}
		if log, ok := summary.Logs[habit.ID]; ok {
			status := log.Status
			habits[i].TodayStatus = &status
		}
	}

	return TodayResponse{
		Date:     summary.Date,
		Habits:   habits,
		Tasks:    ToTaskDTOs(summary.Tasks),
		Progress: ToProgressDTO(summary.Progress),
	}
}

func ToToggleResponse(result *services.ToggleResult) ToggleResponse {
	resp := ToggleResponse{
		Habit: ToHabitDTO(*result.Habit),
		Log:   ToHabitLogDTO(*result.Log),
	}
	if result.Progress != nil {
		p := ToProgressDTO(*result.Progress)
		resp.Progress = &p
	}
	return resp
}
