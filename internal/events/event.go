// Package events carries progress and completion signals from services to
// connected clients.
package events

import (
	"context"
	"time"
)

type Kind string

const (
	KindItemCompleted   Kind = "item-completed"
	KindProgressUpdated Kind = "progress-updated"
	KindCelebrationFull Kind = "celebration-full"
)

type ItemType string

const (
	ItemHabit ItemType = "habit"
	ItemTask  ItemType = "task"
)

// Event is one signal addressed to a single user.
type Event struct {
	Kind       Kind      `json:"kind"`
	UserID     string    `json:"user_id"`
	ItemType   ItemType  `json:"item_type,omitempty"`
	ItemID     string    `json:"id,omitempty"`
	Percentage *int      `json:"percentage,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher delivers events to the subscribers of Event.UserID.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
