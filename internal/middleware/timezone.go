package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// ResolveLocation picks the caller's calendar: the X-Timezone header, then
// the profile's timezone preference, then fallback. It must run after
// RequireAuth.
func ResolveLocation(settings *services.SettingsService, fallback *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		if name := c.GetHeader(constants.TimezoneHeader); name != "" {
			loc, err := time.LoadLocation(name)
			if err != nil {
				apierrors.AbortWithError(c, http.StatusBadRequest,
					apierrors.NewAPIError(apierrors.ErrCodeInvalidFormat, "X-Timezone must be a valid IANA zone name"))
				return
			}
			c.Set(constants.ContextKeyLocation, loc)
			c.Next()
			return
		}

		loc := fallback
		if userID, ok := GetUserID(c); ok && settings != nil {
			loc = settings.Location(c.Request.Context(), userID, fallback)
		}
		c.Set(constants.ContextKeyLocation, loc)
		c.Next()
	}
}

// GetLocation returns the resolved calendar, or UTC when none was set
func GetLocation(c *gin.Context) *time.Location {
	if v, ok := c.Get(constants.ContextKeyLocation); ok {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	return time.UTC
}
