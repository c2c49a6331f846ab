package guildrouter

import (
	"context"
	"log/slog"

	guildhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/handlers"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// GuildRouter handles Watermill handler registration for guild events.
type GuildRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    metrics.OperationMetrics
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics metrics.OperationMetrics,
) *GuildRouter {
	return &GuildRouter{
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
func (r *GuildRouter) Configure(_ context.Context, handlers guildhandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, discordevents.GuildJoinedV1, handlers.HandleGuildJoined)
	registerHandler(deps, discordevents.GuildLeftV1, handlers.HandleGuildLeft)
	registerHandler(deps, discordevents.MemberJoinedV1, handlers.HandleMemberJoined)
	registerHandler(deps, discordevents.MemberLeftV1, handlers.HandleMemberLeft)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupWelcome), handlers.HandleSetupChannel)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupLogging), handlers.HandleSetupChannel)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupLevelUp), handlers.HandleSetupChannel)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupMuteRole), handlers.HandleSetupMuteRole)
	registerHandler(deps, guildevents.AuditRequestedV1, handlers.HandleAuditRequested)

	r.logger.Info("Guild module handlers registered successfully")
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
	handlerName := "guild." + topic

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
