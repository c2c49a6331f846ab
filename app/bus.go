package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
)

// newEventBus picks JetStream when a NATS URL is configured and the in-process bus otherwise.
func newEventBus(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logger.WarnContext(ctx, "NATS url not set, using in-process event bus")
		return eventbus.NewMemoryEventBus(logger), nil
	}

	bus, err := eventbus.NewJetStreamEventBus(ctx, eventbus.JetStreamConfig{
		URL:          cfg.URL,
		ConsumerName: cfg.ConsumerName,
		NKeySeed:     cfg.NKeySeed,
		Streams:      prefixedStreams(cfg.StreamPrefix),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	return bus, nil
}

// prefixedStreams namespaces the stream names so several deployments can share a server.
func prefixedStreams(prefix string) map[string]string {
	out := make(map[string]string, len(eventbus.DefaultStreams))
	for name, subject := range eventbus.DefaultStreams {
		if prefix != "" {
			name = prefix + "_" + name
		}
		out[name] = subject
	}
	return out
}

// registerReplyRelay routes interaction replies produced by module handlers back to Discord.
func registerReplyRelay(router *message.Router, bus eventbus.EventBus, notifier platform.Notifier, helpers utils.Helpers, obs observability.Observability) error {
	sub, err := bus.Subscriber("discord")
	if err != nil {
		return fmt.Errorf("failed to create discord subscriber: %w", err)
	}

	relay := discord.NewReplyRelay(notifier, obs.Provider.Logger)
	name := "discord." + discordevents.InteractionReplyRequestedV1
	router.AddHandler(
		name,
		discordevents.InteractionReplyRequestedV1,
		sub,
		"",
		bus,
		handlerwrapper.WrapTransformingTyped(name, obs.Provider.Logger, obs.Registry.Tracer, helpers, obs.Registry.Operations, relay.HandleReplyRequested),
	)
	return nil
}
