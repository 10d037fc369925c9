package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

const contextKeyEmail = "email"

// RequireAuth checks if the user is authenticated via session, falling back
// to an identity provider bearer token when there is no session.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(constants.ContextKeyUserID).(string); ok && userID != "" {
			c.Set(constants.ContextKeyUserID, userID)
			if email, ok := session.Get(contextKeyEmail).(string); ok {
				c.Set(contextKeyEmail, email)
			}
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || authService == nil {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		identity, err := authService.VerifyToken(header)
		if err != nil {
			code := apierrors.ErrCodeInvalidToken
			if errors.Is(err, services.ErrAuthNotConfigured) {
				code = apierrors.ErrCodeUnauthorized
			}
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(code, err.Error()))
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// SetIdentity stores the verified caller in the request context
func SetIdentity(c *gin.Context, identity *services.Identity) {
	c.Set(constants.ContextKeyUserID, identity.UserID)
	c.Set(contextKeyEmail, identity.Email)
}

// SaveSession persists the identity in the cookie session
func SaveSession(c *gin.Context, identity *services.Identity) error {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, identity.UserID)
	session.Set(contextKeyEmail, identity.Email)
	return session.Save()
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

func GetEmail(c *gin.Context) string {
	return c.GetString(contextKeyEmail)
}
