package reactionrolehandlers

import (
	"context"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
)

func toEvent(p *discordevents.ReactionPayloadV1) reactionroleservice.ReactionEvent {
	return reactionroleservice.ReactionEvent{
		GuildID:   p.GuildID,
		MessageID: p.MessageID,
		UserID:    p.UserID,
		Emoji:     p.Emoji,
		Bot:       p.Bot,
	}
}

// HandleReactionAdded grants the bound role. Role failures are logged and
// the event is acked; a reaction is never retried.
func (h *ReactionRoleHandlers) HandleReactionAdded(ctx context.Context, payload *discordevents.ReactionPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ReactionRoleHandlers.HandleReactionAdded")
	defer span.End()

	outcome, err := h.service.OnReactionAdd(ctx, toEvent(payload))
	h.logOutcome(ctx, payload, outcome, err)
	return nil, nil
}

// HandleReactionRemoved takes the bound role away.
func (h *ReactionRoleHandlers) HandleReactionRemoved(ctx context.Context, payload *discordevents.ReactionPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ReactionRoleHandlers.HandleReactionRemoved")
	defer span.End()

	outcome, err := h.service.OnReactionRemove(ctx, toEvent(payload))
	h.logOutcome(ctx, payload, outcome, err)
	return nil, nil
}

func (h *ReactionRoleHandlers) logOutcome(ctx context.Context, p *discordevents.ReactionPayloadV1, outcome reactionroleservice.ReactionOutcome, err error) {
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to apply reaction role",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(p.GuildID),
			attr.UserID(p.UserID),
			attr.String("emoji", p.Emoji),
			attr.Error(err),
		)
		return
	}
	if outcome == reactionroleservice.ReactionApplied {
		h.logger.DebugContext(ctx, "Reaction role applied",
			attr.GuildID(p.GuildID),
			attr.UserID(p.UserID),
			attr.String("emoji", p.Emoji),
		)
	}
}
