package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/events"
)

const defaultHeartbeat = 25 * time.Second

// EventsHandler streams progress and completion events over SSE
type EventsHandler struct {
	bus       *events.Bus
	notifier  *events.Notifier
	heartbeat time.Duration
}

func NewEventsHandler(bus *events.Bus, notifier *events.Notifier) *EventsHandler {
	return &EventsHandler{
		bus:       bus,
		notifier:  notifier,
		heartbeat: defaultHeartbeat,
	}
}

// Stream holds the connection open and writes each event of the current
// user as an SSE message named after its kind.
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	sub := h.bus.Subscribe(userID)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			c.SSEvent(string(event.Kind), event)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		}
	}
}

// DismissCelebration starts the cooldown that suppresses the next
// celebration for the current user.
func (h *EventsHandler) DismissCelebration(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	h.notifier.DismissCelebration(userID)
	c.Status(http.StatusNoContent)
}
