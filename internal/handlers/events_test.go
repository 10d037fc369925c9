package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
)

func TestEventsHandler_Stream(t *testing.T) {
	env := setupAPI(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+env.tokens["alice"])

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool {
		return env.services.Bus.SubscriberCount("alice") == 1
	}, 2*time.Second, 10*time.Millisecond)

	kinds := make(chan string, 16)
	go func() {
		defer close(kinds)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if name, ok := strings.CutPrefix(line, "event:"); ok {
				kinds <- strings.TrimSpace(name)
			}
		}
	}()

	// bob's activity never reaches alice's stream
	other := testutil.CreateTask(t, env.db, "bob", "Other", models.TaskStatusPending)
	w := env.do(t, "bob", http.MethodPatch, "/api/tasks/"+other.ID+"/status", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	task := testutil.CreateTask(t, env.db, "alice", "Ship", models.TaskStatusPending)
	w = env.do(t, "alice", http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	seen := map[string]bool{}
	for len(seen) < 3 {
		select {
		case kind, ok := <-kinds:
			require.True(t, ok, "stream closed early")
			seen[kind] = true
		case <-ctx.Done():
			t.Fatalf("timed out waiting for events, saw %v", seen)
		}
	}
	assert.True(t, seen[string(events.KindItemCompleted)])
	assert.True(t, seen[string(events.KindProgressUpdated)])
	assert.True(t, seen[string(events.KindCelebrationFull)])
}

func TestEventsHandler_StreamRequiresAuth(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, "", http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventsHandler_DismissCelebration(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, "alice", http.MethodPost, "/api/celebrations/dismiss", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// a dismissed user does not get a celebration on the next completion
	sub := env.services.Bus.Subscribe("alice")
	defer sub.Close()

	task := testutil.CreateTask(t, env.db, "alice", "Ship", models.TaskStatusPending)
	w = env.do(t, "alice", http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	var kinds []events.Kind
drain:
	for {
		select {
		case event := <-sub.C:
			kinds = append(kinds, event.Kind)
		default:
			break drain
		}
	}
	assert.Contains(t, kinds, events.KindProgressUpdated)
	assert.NotContains(t, kinds, events.KindCelebrationFull)
}
