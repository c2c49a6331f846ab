package levelingrouter

import (
	"context"
	"log/slog"

	levelinghandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/handlers"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// LevelingRouter handles Watermill handler registration for leveling events.
type LevelingRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    metrics.OperationMetrics
}

// NewLevelingRouter creates a new LevelingRouter.
func NewLevelingRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics metrics.OperationMetrics,
) *LevelingRouter {
	return &LevelingRouter{
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
func (r *LevelingRouter) Configure(_ context.Context, handlers levelinghandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, discordevents.MessageCreatedV1, handlers.HandleMessageCreated)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandProfile), handlers.HandleProfile)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetBio), handlers.HandleSetBio)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandResyncMilestones), handlers.HandleResyncMilestones)
	registerHandler(deps, guildevents.GuildConfigDeletedV1, handlers.HandleGuildConfigDeleted)

	r.logger.Info("Leveling module handlers registered successfully")
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
	handlerName := "leveling." + topic

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
