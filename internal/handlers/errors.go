package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// respondServiceError maps service sentinels to API errors
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserRequired):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrHabitNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrHistoryEntryNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrHabitInactive):
		apierrors.Conflict(c, apierrors.ErrCodeHabitInactive, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrInvalidFrequency),
		errors.Is(err, services.ErrInvalidTheme),
		errors.Is(err, services.ErrInvalidTimezone),
		errors.Is(err, services.ErrUsernameTooLong),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidRange):
		apierrors.InvalidFormat(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// respondBindError reports a request body that failed to decode or validate.
// Validation failures list the failing rule per field.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", fields)
}

// requireUser reads the authenticated user id, responding 401 when absent
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}
