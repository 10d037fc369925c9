package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	settings    *services.SettingsService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, settings *services.SettingsService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		settings:    settings,
	}
}

// CreateSession exchanges an identity provider access token for a cookie
// session. The token is read from the Authorization header or the body.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	type SessionRequest struct {
		AccessToken string `json:"access_token"`
	}

	token := c.GetHeader("Authorization")
	if token == "" {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		token = req.AccessToken
	}

	identity, err := h.authService.VerifyToken(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthNotConfigured):
			apierrors.ServiceUnavailable(c, err.Error())
		case errors.Is(err, services.ErrMissingToken):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InvalidToken(c, "")
		}
		return
	}

	profile, err := h.settings.GetProfile(c.Request.Context(), identity.UserID, identity.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := middleware.SaveSession(c, identity); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
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
