package eventbus

import (
	"fmt"

	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventBus publishes and subscribes to domain topics.
//
// Publishing with an empty topic routes every message by its "topic" metadata,
// which is how router handlers emit events to several destinations.
type EventBus interface {
	message.Publisher
	message.Subscriber

	// Subscriber returns a subscriber scoped to a consumer group so that each
	// group receives every message published on a topic.
	Subscriber(group string) (message.Subscriber, error)
}

// publishRouted publishes each message to its own metadata topic when topic is empty.
func publishRouted(pub message.Publisher, topic string, messages ...*message.Message) error {
	if topic != "" {
		return pub.Publish(topic, messages...)
	}
	for _, msg := range messages {
		dest := msg.Metadata.Get(utils.TopicKey)
		if dest == "" {
			return fmt.Errorf("message %s has no topic metadata", msg.UUID)
		}
		if err := pub.Publish(dest, msg); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", dest, err)
		}
	}
	return nil
}
