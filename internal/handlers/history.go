package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func historyQuery(c *gin.Context, userID string) services.HistoryQuery {
	query := services.HistoryQuery{
		UserID:   userID,
		Range:    services.HistoryRange(c.DefaultQuery("range", string(services.RangeAll))),
		Location: middleware.GetLocation(c),
	}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status := models.LogStatus(raw)
		query.Status = &status
	}
	return query
}

// HabitLogs lists habit logs filtered by ?range=week|month|all and ?status=
func (h *HistoryHandler) HabitLogs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	history, err := h.history.HabitLogs(c.Request.Context(), historyQuery(c, userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitHistoryResponse(history))
}

// TaskHistory lists archived completed tasks filtered by ?range=
func (h *HistoryHandler) TaskHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entries, err := h.history.TaskHistory(c.Request.Context(), historyQuery(c, userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskHistoryResponse(entries))
}

func (h *HistoryHandler) DeleteTaskHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.history.DeleteTaskHistory(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "History entry deleted successfully",
	})
}
