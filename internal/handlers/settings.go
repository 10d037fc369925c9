package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// SettingsHandler serves the profile and the reset and restore actions
type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.settings.GetProfile(c.Request.Context(), userID, middleware.GetEmail(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}

// UpdateProfile applies the fields present in the body. Preferences are
// merged key by key.
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		FullName         *string        `json:"full_name" binding:"omitempty,max=255"`
		Username         *string        `json:"username"`
		Theme            *string        `json:"theme" binding:"omitempty,oneof=dark light system"`
		Timezone         *string        `json:"timezone" binding:"omitempty,timezone"`
		Preferences      map[string]any `json:"preferences"`
		HistoryStartedAt *time.Time     `json:"history_started_at"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.settings.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FullName:         req.FullName,
		Username:         req.Username,
		Theme:            req.Theme,
		Timezone:         req.Timezone,
		Preferences:      req.Preferences,
		HistoryStartedAt: req.HistoryStartedAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}

// StartHistory hides every record older than now from history views
func (h *SettingsHandler) StartHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.settings.StartHistoryNow(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}

// ClearHistoryFence shows the full history again
func (h *SettingsHandler) ClearHistoryFence(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.settings.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{ClearHistoryFence: true})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}

func (h *SettingsHandler) ResetTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.settings.ResetTasks(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResetResponse(result, nil, constants.RestoreGracePeriod))
}

func (h *SettingsHandler) ResetHabits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.settings.ResetHabitProgress(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResetResponse(nil, result, constants.RestoreGracePeriod))
}

func (h *SettingsHandler) ResetAll(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tasks, habits, err := h.settings.ResetAll(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResetResponse(tasks, habits, constants.RestoreGracePeriod))
}

// ClearHistory soft deletes habit logs and task history
func (h *SettingsHandler) ClearHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, at, err := h.settings.ClearHistory(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResetResponse{
		TaskIDs:         result.TaskIDs,
		TaskHistoryIDs:  result.TaskHistoryIDs,
		HabitLogIDs:     result.HabitLogIDs,
		UpdatedHabitIDs: []string{},
		DeletedAt:       at,
		RestoreUntil:    at.Add(constants.RestoreGracePeriod),
	})
}

// Restore undeletes rows removed by a reset within the undo window
func (h *SettingsHandler) Restore(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type RestoreRequest struct {
		TaskIDs        []string `json:"task_ids"`
		TaskHistoryIDs []string `json:"task_history_ids"`
		HabitLogIDs    []string `json:"habit_log_ids"`
	}

	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.settings.Restore(c.Request.Context(), userID, services.RestoreInput{
		TaskIDs:        req.TaskIDs,
		TaskHistoryIDs: req.TaskHistoryIDs,
		HabitLogIDs:    req.HabitLogIDs,
	}, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
