package moderationrouter

import (
	"context"
	"log/slog"

	moderationhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/handlers"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ModerationRouter handles Watermill handler registration for moderation commands.
type ModerationRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    metrics.OperationMetrics
}

// NewModerationRouter creates a new ModerationRouter.
func NewModerationRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics metrics.OperationMetrics,
) *ModerationRouter {
	return &ModerationRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		helper:     helper,
		tracer:     tracer,
		metrics:    metrics,
	}
}

// Configure sets up the router with handlers.
func (r *ModerationRouter) Configure(_ context.Context, handlers moderationhandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandMute), handlers.HandleMute)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandUnmute), handlers.HandleUnmute)
	registerHandler(deps, guildevents.GuildConfigDeletedV1, handlers.HandleGuildConfigDeleted)

	r.logger.Info("Moderation module handlers registered successfully")
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
	helper     utils.Helpers
	metrics    metrics.OperationMetrics
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "moderation." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.helper,
			deps.metrics,
			handler,
		),
	)
}
