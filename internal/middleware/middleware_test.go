package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/services"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(auth *services.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/login", func(c *gin.Context) {
		if err := SaveSession(c, &services.Identity{UserID: "alice", Email: "alice@example.com"}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", RequireAuth(auth), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": GetEmail(c)})
	})
	return r
}

func TestRequireAuth_NoCredentials(t *testing.T) {
	r := newAuthRouter(services.NewAuthService("secret", "", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_Session(t *testing.T) {
	r := newAuthRouter(nil)

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"alice","email":"alice@example.com"}`, w.Body.String())
}

func TestRequireAuth_BearerToken(t *testing.T) {
	auth := services.NewAuthService("secret", "", "")
	r := newAuthRouter(auth)

	token, err := auth.IssueToken("bob", "bob@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"bob","email":"bob@example.com"}`, w.Body.String())

	bad := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, bad)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func newLocationRouter(t *testing.T) (*gin.Engine, *services.SettingsService) {
	db := testutil.NewDB(t)
	settings := services.NewSettingsService(
		repository.NewProfileRepository(db),
		repository.NewHabitRepository(db),
		repository.NewHabitLogRepository(db),
		repository.NewTaskRepository(db),
		repository.NewTaskHistoryRepository(db),
		nil,
		nil,
		zap.NewNop(),
	)

	r := gin.New()
	r.GET("/loc",
		func(c *gin.Context) { c.Set(constants.ContextKeyUserID, "alice") },
		ResolveLocation(settings, time.FixedZone("JST", 9*60*60)),
		func(c *gin.Context) { c.String(http.StatusOK, GetLocation(c).String()) },
	)
	return r, settings
}

func TestResolveLocation(t *testing.T) {
	r, settings := newLocationRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loc", nil))
	assert.Equal(t, "JST", w.Body.String())

	tz := "UTC"
	_, err := settings.UpdateProfile(t.Context(), "alice", services.UpdateProfileInput{Timezone: &tz})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loc", nil))
	assert.Equal(t, "UTC", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/loc", nil)
	req.Header.Set(constants.TimezoneHeader, "Not/AZone")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLocation_DefaultsToUTC(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, time.UTC, GetLocation(c))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
