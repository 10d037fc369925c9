package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

type HabitHandler struct {
	habits *services.HabitService
}

func NewHabitHandler(habits *services.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

// ListHabits returns all habits of the current user, active or not
func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	habits, err := h.habits.ListHabits(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": dto.ToHabitDTOs(habits)})
}

// GetHabit returns the habit loaded by RequireHabitAccess
func (h *HabitHandler) GetHabit(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(*habit))
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateHabitRequest struct {
		Title       string                `json:"title" binding:"required,max=255"`
		Description string                `json:"description"`
		Frequency   models.HabitFrequency `json:"frequency"`
		Icon        string                `json:"icon" binding:"max=32"`
		Color       string                `json:"color" binding:"max=16"`
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	habit, err := h.habits.CreateHabit(c.Request.Context(), services.CreateHabitInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
		Icon:        req.Icon,
		Color:       req.Color,
		Location:    middleware.GetLocation(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHabitDTO(*habit))
}

// UpdateHabit updates only the fields present in the body
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	type UpdateHabitRequest struct {
		Title       *string                `json:"title" binding:"omitempty,max=255"`
		Description *string                `json:"description"`
		Frequency   *models.HabitFrequency `json:"frequency"`
		Icon        *string                `json:"icon" binding:"omitempty,max=32"`
		Color       *string                `json:"color" binding:"omitempty,max=16"`
	}

	var req UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.habits.UpdateHabit(c.Request.Context(), habit.UserID, habit.ID, services.UpdateHabitInput{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(*updated))
}

// SetActive pauses or resumes a habit
func (h *HabitHandler) SetActive(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	type SetActiveRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "is_active is required")
		return
	}

	updated, err := h.habits.SetActive(c.Request.Context(), habit.UserID, habit.ID, *req.IsActive, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(*updated))
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	if err := h.habits.DeleteHabit(c.Request.Context(), habit.UserID, habit.ID, middleware.GetLocation(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Habit deleted successfully",
	})
}

// ToggleToday flips today's log for the habit in the caller's calendar
func (h *HabitHandler) ToggleToday(c *gin.Context) {
	habit, ok := middleware.GetHabit(c)
	if !ok {
		apierrors.InternalError(c, "Habit not found in context")
		return
	}

	result, err := h.habits.ToggleToday(c.Request.Context(), habit.UserID, habit.ID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToToggleResponse(result))
}
