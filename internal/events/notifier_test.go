package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestNotifier_ProgressAndCelebration(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, NewCelebrations(5*time.Second), zap.NewNop())
	ctx := context.Background()

	n.ProgressUpdated(ctx, "alice", 63)
	n.ProgressUpdated(ctx, "alice", 100)
	n.ProgressUpdated(ctx, "alice", 100)

	kinds := make([]Kind, 0, len(pub.events))
	for _, ev := range pub.events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []Kind{KindProgressUpdated, KindProgressUpdated, KindCelebrationFull, KindProgressUpdated}, kinds)
	require.NotNil(t, pub.events[0].Percentage)
	assert.Equal(t, 63, *pub.events[0].Percentage)
	assert.False(t, pub.events[0].At.IsZero())
}

func TestNotifier_DismissSuppressesReopen(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, NewCelebrations(time.Hour), zap.NewNop())
	ctx := context.Background()

	n.ProgressUpdated(ctx, "alice", 100)
	n.DismissCelebration("alice")
	n.ProgressUpdated(ctx, "alice", 90)
	n.ProgressUpdated(ctx, "alice", 100)

	celebrations := 0
	for _, ev := range pub.events {
		if ev.Kind == KindCelebrationFull {
			celebrations++
		}
	}
	assert.Equal(t, 1, celebrations)
}

func TestNotifier_ItemCompleted(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	n := NewNotifier(pub, nil, zap.NewNop())

	n.ItemCompleted(context.Background(), "alice", ItemTask, "t1")

	require.Len(t, pub.events, 1)
	assert.Equal(t, KindItemCompleted, pub.events[0].Kind)
	assert.Equal(t, ItemTask, pub.events[0].ItemType)
	assert.Equal(t, "t1", pub.events[0].ItemID)
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.ItemCompleted(context.Background(), "alice", ItemHabit, "h1")
		n.ProgressUpdated(context.Background(), "alice", 100)
		n.DismissCelebration("alice")
	})
}
