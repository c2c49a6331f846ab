package reactionrolerouter

import (
	"context"
	"log/slog"

	reactionrolehandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/handlers"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ReactionRoleRouter handles Watermill handler registration for reaction-role events.
type ReactionRoleRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    metrics.OperationMetrics
}

// NewReactionRoleRouter creates a new ReactionRoleRouter.
func NewReactionRoleRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics metrics.OperationMetrics,
) *ReactionRoleRouter {
	return &ReactionRoleRouter{
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
func (r *ReactionRoleRouter) Configure(_ context.Context, handlers reactionrolehandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, discordevents.ReactionAddedV1, handlers.HandleReactionAdded)
	registerHandler(deps, discordevents.ReactionRemovedV1, handlers.HandleReactionRemoved)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupReactionRole), handlers.HandleSetupReactionRole)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandRefreshReactions), handlers.HandleRefreshReactions)
	registerHandler(deps, guildevents.GuildConfigDeletedV1, handlers.HandleGuildConfigDeleted)

	r.logger.Info("Reaction role module handlers registered successfully")
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
	handlerName := "reactionrole." + topic

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
