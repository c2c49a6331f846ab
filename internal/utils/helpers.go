package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Metadata keys carried on every message.
const (
	TopicKey     = "topic"
	GuildIDKey   = "guild_id"
	NatsMsgIDKey = "Nats-Msg-Id"
)

// Helpers builds Watermill messages from typed payloads.
type Helpers interface {
	// CreateNewMessage starts a new correlation chain.
	CreateNewMessage(payload any, topic string) (*message.Message, error)

	// CreateResultMessage continues the correlation chain of original.
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
}

type helpers struct{}

// NewHelper returns the default Helpers implementation.
func NewHelper() Helpers { return helpers{} }

func (helpers) CreateNewMessage(payload any, topic string) (*message.Message, error) {
	msg, err := newMessage(payload, topic)
	if err != nil {
		return nil, err
	}
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	return msg, nil
}

func (helpers) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	msg, err := newMessage(payload, topic)
	if err != nil {
		return nil, err
	}

	correlationID := ""
	if original != nil {
		correlationID = middleware.MessageCorrelationID(original)
		if guildID := original.Metadata.Get(GuildIDKey); guildID != "" {
			msg.Metadata.Set(GuildIDKey, guildID)
		}
	}
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

func newMessage(payload any, topic string) (*message.Message, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(TopicKey, topic)
	msg.Metadata.Set(NatsMsgIDKey, msg.UUID)
	return msg, nil
}

// EventPublisher publishes typed payloads from work that runs outside a
// message handler, such as background flows and queue workers.
type EventPublisher struct {
	publisher message.Publisher
	helpers   Helpers
}

// NewEventPublisher wraps publisher.
func NewEventPublisher(publisher message.Publisher, helpers Helpers) *EventPublisher {
	return &EventPublisher{publisher: publisher, helpers: helpers}
}

// PublishEvent builds a new message for payload and publishes it on topic.
func (p *EventPublisher) PublishEvent(ctx context.Context, topic string, payload any) error {
	msg, err := p.helpers.CreateNewMessage(payload, topic)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return p.publisher.Publish(topic, msg)
}
