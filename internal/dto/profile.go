package dto

import (
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// ProfileDTO represents the caller's profile and settings
type ProfileDTO struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	FullName         *string            `json:"full_name"`
	Username         *string            `json:"username"`
	Theme            string             `json:"theme"`
	Timezone         string             `json:"timezone"`
	Preferences      models.Preferences `json:"preferences"`
	HistoryStartedAt *time.Time         `json:"history_started_at"`
}

// ResetResponse reports what a reset soft deleted. The ids can be passed
// back to the restore endpoint within the undo window.
type ResetResponse struct {
	TaskIDs         []string  `json:"task_ids"`
	TaskHistoryIDs  []string  `json:"task_history_ids"`
	HabitLogIDs     []string  `json:"habit_log_ids"`
	UpdatedHabitIDs []string  `json:"updated_habit_ids"`
	DeletedAt       time.Time `json:"deleted_at"`
	RestoreUntil    time.Time `json:"restore_until"`
}

func ToProfileDTO(profile models.Profile) ProfileDTO {
	prefs := profile.Preferences
	if prefs == nil {
		prefs = models.Preferences{}
	}
	return ProfileDTO{
		ID:               profile.ID,
		Email:            profile.Email,
		FullName:         profile.FullName,
		Username:         profile.Username,
		Theme:            prefs.Theme(),
		Timezone:         prefs.Timezone(),
		Preferences:      prefs,
		HistoryStartedAt: profile.HistoryStartedAt,
	}
}

// ToResetResponse merges the task and habit halves of a reset. Either may be
// nil.
func ToResetResponse(tasks *services.TaskResetResult, habits *services.HabitResetResult, grace time.Duration) ResetResponse {
	resp := ResetResponse{
		TaskIDs:         []string{},
		TaskHistoryIDs:  []string{},
		HabitLogIDs:     []string{},
		UpdatedHabitIDs: []string{},
	}
	if tasks != nil {
		resp.TaskIDs = tasks.TaskIDs
		resp.TaskHistoryIDs = tasks.TaskHistoryIDs
		resp.DeletedAt = tasks.DeletedAt
	}
	if habits != nil {
		resp.HabitLogIDs = habits.HabitLogIDs
		resp.UpdatedHabitIDs = habits.UpdatedHabitIDs
		resp.DeletedAt = habits.DeletedAt
	}
	resp.RestoreUntil = resp.DeletedAt.Add(grace)
	return resp
}
