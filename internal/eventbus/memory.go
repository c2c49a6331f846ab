package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MemoryEventBus is an in-process bus used for local runs and tests.
type MemoryEventBus struct {
	pubsub *gochannel.GoChannel
}

var _ EventBus = (*MemoryEventBus)(nil)

// NewMemoryEventBus creates a bus backed by Watermill's gochannel.
func NewMemoryEventBus(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermill.NewSlogLogger(logger)),
	}
}

func (b *MemoryEventBus) Publish(topic string, messages ...*message.Message) error {
	return publishRouted(b.pubsub, topic, messages...)
}

func (b *MemoryEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Subscriber returns the bus itself; gochannel already fans out to every subscriber.
func (b *MemoryEventBus) Subscriber(string) (message.Subscriber, error) {
	return b, nil
}

func (b *MemoryEventBus) Close() error {
	return b.pubsub.Close()
}
