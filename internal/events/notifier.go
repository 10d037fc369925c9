package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Notifier is the service-facing side of the event channel. A nil *Notifier
// discards everything.
type Notifier struct {
	publisher    Publisher
	celebrations *Celebrations
	log          *zap.Logger
	now          func() time.Time
}

func NewNotifier(publisher Publisher, celebrations *Celebrations, log *zap.Logger) *Notifier {
	return &Notifier{
		publisher:    publisher,
		celebrations: celebrations,
		log:          log,
		now:          time.Now,
	}
}

func (n *Notifier) publish(ctx context.Context, event Event) {
	event.At = n.now()
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Warn("failed to publish event",
			zap.String("user_id", event.UserID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}

func (n *Notifier) ItemCompleted(ctx context.Context, userID string, itemType ItemType, id string) {
	if n == nil {
		return
	}
	n.publish(ctx, Event{Kind: KindItemCompleted, UserID: userID, ItemType: itemType, ItemID: id})
}

// ProgressUpdated re-emits pct and, on a transition into 100, a celebration.
func (n *Notifier) ProgressUpdated(ctx context.Context, userID string, pct int) {
	if n == nil {
		return
	}
	n.publish(ctx, Event{Kind: KindProgressUpdated, UserID: userID, Percentage: &pct})

	if n.celebrations != nil && n.celebrations.Observe(userID, pct) {
		n.publish(ctx, Event{Kind: KindCelebrationFull, UserID: userID, Percentage: &pct})
	}
}

func (n *Notifier) DismissCelebration(userID string) {
	if n == nil || n.celebrations == nil {
		return
	}
	n.celebrations.Dismiss(userID)
}
