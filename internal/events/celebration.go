package events

import (
	"sync"
	"time"
)

// Celebrations decides when a full-completion signal may fire. It fires once
// per transition into 100 and stays quiet for a cooldown after the user
// dismisses the acknowledgment.
type Celebrations struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	state    map[string]*celebrationState
}

type celebrationState struct {
	last        int
	seen        bool
	dismissedAt time.Time
}

func NewCelebrations(cooldown time.Duration) *Celebrations {
	return &Celebrations{
		cooldown: cooldown,
		now:      time.Now,
		state:    make(map[string]*celebrationState),
	}
}

func (c *Celebrations) get(userID string) *celebrationState {
	st, ok := c.state[userID]
	if !ok {
		st = &celebrationState{}
		c.state[userID] = st
	}
	return st
}

// Observe records pct for userID and reports whether a celebration should fire.
func (c *Celebrations) Observe(userID string, pct int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.get(userID)
	entering := pct >= 100 && (!st.seen || st.last < 100)
	st.last = pct
	st.seen = true
	cooling := !st.dismissedAt.IsZero() && c.now().Sub(st.dismissedAt) < c.cooldown

	// below full with no cooldown running, an entry behaves like a missing one
	if pct < 100 && !cooling {
		delete(c.state, userID)
	}

	return entering && !cooling
}

// Dismiss starts the cooldown for userID.
func (c *Celebrations) Dismiss(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.get(userID).dismissedAt = c.now()
}
