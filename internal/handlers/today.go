package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

type TodayHandler struct {
	progress *services.ProgressService
}

func NewTodayHandler(progress *services.ProgressService) *TodayHandler {
	return &TodayHandler{progress: progress}
}

// GetToday runs backfill and streak maintenance, then returns today's
// habits, tasks and progress.
func (h *TodayHandler) GetToday(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.progress.LoadToday(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodayResponse(summary))
}
