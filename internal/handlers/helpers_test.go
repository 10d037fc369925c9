package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/services"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
}

type apiEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	services Services
	tokens   map[string]string
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()

	habitRepo := repository.NewHabitRepository(db)
	logRepo := repository.NewHabitLogRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewTaskHistoryRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	bus := events.NewBus()
	notifier := events.NewNotifier(bus, events.NewCelebrations(constants.DefaultCelebrationCooldown), log)

	streaks := services.NewStreakService(habitRepo, logRepo, log)
	progress := services.NewProgressService(habitRepo, logRepo, taskRepo, streaks, notifier)
	settings := services.NewSettingsService(profileRepo, habitRepo, logRepo, taskRepo, historyRepo, streaks, progress, log)

	s := Services{
		Auth:     services.NewAuthService("test-secret", "", ""),
		Habits:   services.NewHabitService(habitRepo, logRepo, streaks, progress, notifier, false, log),
		Tasks:    services.NewTaskService(taskRepo, progress, notifier, nil, false, log),
		Progress: progress,
		History:  services.NewHistoryService(logRepo, historyRepo, profileRepo),
		Settings: settings,
		Bus:      bus,
		Notifier: notifier,
		Location: time.UTC,
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, s)

	env := &apiEnv{db: db, router: r, services: s, tokens: map[string]string{}}
	for _, user := range []string{"alice", "bob"} {
		token, err := s.Auth.IssueToken(user, user+"@example.com", time.Hour)
		require.NoError(t, err)
		env.tokens[user] = token
	}
	return env
}

// do sends a JSON request as user. An empty user sends no credentials.
func (e *apiEnv) do(t *testing.T, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithHeaders(t, user, method, path, body, nil)
}

func (e *apiEnv) doWithHeaders(t *testing.T, user, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[user])
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func today() string {
	return utils.Today(time.Now(), time.UTC)
}

