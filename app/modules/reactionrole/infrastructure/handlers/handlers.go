package reactionrolehandlers

import (
	"context"
	"log/slog"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"go.opentelemetry.io/otel/trace"
)

// ReactionRoleHandlers implements the Handlers interface.
type ReactionRoleHandlers struct {
	service reactionroleservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewReactionRoleHandlers creates a new ReactionRoleHandlers instance.
func NewReactionRoleHandlers(
	service reactionroleservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ReactionRoleHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func reply(p *discordevents.CommandPayloadV1, msg platform.Message) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:   discordevents.InteractionReplyRequestedV1,
		Payload: discordevents.NewReply(p, msg),
	}}
}

// HandleGuildConfigDeleted purges the guild's reaction roles.
func (h *ReactionRoleHandlers) HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ReactionRoleHandlers.HandleGuildConfigDeleted")
	defer span.End()

	n, err := h.service.PurgeGuild(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "Purged guild reaction roles", attr.GuildID(payload.GuildID), attr.Int64("rows", n))
	return nil, nil
}
