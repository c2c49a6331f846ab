package milestonerouter

import (
	"context"
	"log/slog"

	milestonehandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/handlers"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	levelingevents "github.com/Black-And-White-Club/senshi-bot/internal/events/leveling"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// MilestoneRouter handles Watermill handler registration for milestone events.
type MilestoneRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    metrics.OperationMetrics
}

// NewMilestoneRouter creates a new MilestoneRouter.
func NewMilestoneRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics metrics.OperationMetrics,
) *MilestoneRouter {
	return &MilestoneRouter{
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
func (r *MilestoneRouter) Configure(_ context.Context, handlers milestonehandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, levelingevents.LevelUpV1, handlers.HandleLevelUp)
	registerHandler(deps, milestoneevents.GapFillRequestedV1, handlers.HandleGapFillRequested)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandSetupMilestone), handlers.HandleSetupMilestone)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandRemoveMilestone), handlers.HandleRemoveMilestone)
	registerHandler(deps, discordevents.CommandTopic(discordevents.CommandViewMilestones), handlers.HandleViewMilestones)
	registerHandler(deps, guildevents.GuildConfigDeletedV1, handlers.HandleGuildConfigDeleted)

	r.logger.Info("Milestone module handlers registered successfully")
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
	handlerName := "milestone." + topic

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
