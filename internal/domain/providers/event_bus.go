package providers

import (
	"context"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// EventBus publishes feedback events to downstream consumers
type EventBus interface {
	// Publish publishes an event on a channel
	Publish(ctx context.Context, channel string, event *entities.FeedbackEvent) error

	// Close releases the underlying connection
	Close() error
}

const (
	// EventChannelFeedbackCreated carries one message per stored submission
	EventChannelFeedbackCreated = "feedback:created"

	// EventChannelCategoryPrefix is the prefix for per-category channels
	EventChannelCategoryPrefix = "feedback:category:"
)

// GetCategoryChannel returns the channel name for a specific category
func GetCategoryChannel(category string) string {
	return EventChannelCategoryPrefix + category
}
