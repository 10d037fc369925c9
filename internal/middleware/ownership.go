package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// RequireHabitAccess loads the habit named by :id for the current user.
// Habits of other users are reported as not found.
func RequireHabitAccess(habits *services.HabitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		habit, err := habits.GetHabit(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrHabitNotFound) {
				apierrors.AbortWithError(c, http.StatusNotFound, apierrors.NewAPIError(apierrors.ErrCodeNotFound, "Habit not found"))
				return
			}
			apierrors.AbortWithError(c, http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Failed to load habit"))
			return
		}

		c.Set(constants.ContextKeyHabit, habit)
		c.Next()
	}
}

// RequireTaskAccess loads the task named by :id for the current user
func RequireTaskAccess(tasks *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		task, err := tasks.GetTask(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.AbortWithError(c, http.StatusNotFound, apierrors.NewAPIError(apierrors.ErrCodeNotFound, "Task not found"))
				return
			}
			apierrors.AbortWithError(c, http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Failed to load task"))
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

func GetHabit(c *gin.Context) (*models.Habit, bool) {
	v, ok := c.Get(constants.ContextKeyHabit)
	if !ok {
		return nil, false
	}
	habit, ok := v.(*models.Habit)
	return habit, ok
}

func GetTask(c *gin.Context) (*models.Task, bool) {
	v, ok := c.Get(constants.ContextKeyTask)
	if !ok {
		return nil, false
	}
	task, ok := v.(*models.Task)
	return task, ok
}
