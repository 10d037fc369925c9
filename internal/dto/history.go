package dto

import (
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// HabitHistoryResponse lists habit logs in a window with their stats
type HabitHistoryResponse struct {
	Logs  []HabitLogDTO         `json:"logs"`
	Stats services.HistoryStats `json:"stats"`
}

// TaskHistoryDTO is an archived snapshot of a completed task
type TaskHistoryDTO struct {
	ID          string              `json:"id"`
	TaskID      string              `json:"task_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *string             `json:"due_date"`
	CompletedAt time.Time           `json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
}

type TaskHistoryResponse struct {
	Entries []TaskHistoryDTO `json:"entries"`
}

func ToHabitHistoryResponse(history *services.HabitHistory) HabitHistoryResponse {
	logs := make([]HabitLogDTO, len(history.Logs))
	for i, log := range history.Logs {
		logs[i] = ToHabitLogDTO(log)
	}
	return HabitHistoryResponse{Logs: logs, Stats: history.Stats}
}

func ToTaskHistoryResponse(entries []models.TaskHistory) TaskHistoryResponse {
	items := make([]TaskHistoryDTO, len(entries))
	for i, entry := range entries {
		items[i] = TaskHistoryDTO{
			ID:          entry.ID,
			TaskID:      entry.TaskID,
			Title:       entry.Title,
			Description: entry.Description,
			Priority:    entry.Priority,
			DueDate:     entry.DueDate,
			CompletedAt: entry.CompletedAt,
			CreatedAt:   entry.CreatedAt,
		}
	}
	return TaskHistoryResponse{Entries: items}
}
