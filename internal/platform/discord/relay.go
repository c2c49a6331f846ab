package discord

import (
	"context"
	"log/slog"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
)

// ReplyRelay delivers interaction replies produced by module handlers.
type ReplyRelay struct {
	notifier platform.Notifier
	logger   *slog.Logger
}

// NewReplyRelay returns a relay that answers through notifier.
func NewReplyRelay(notifier platform.Notifier, logger *slog.Logger) *ReplyRelay {
	return &ReplyRelay{notifier: notifier, logger: logger}
}

// HandleReplyRequested answers one deferred interaction. Expired tokens are
// logged and acked; retrying cannot revive them.
func (r *ReplyRelay) HandleReplyRequested(ctx context.Context, payload *discordevents.InteractionReplyPayloadV1) ([]handlerwrapper.Result, error) {
	if err := r.notifier.Reply(ctx, payload.Interaction, payload.Message); err != nil {
		r.logger.ErrorContext(ctx, "Failed to deliver interaction reply",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.Interaction.GuildID),
			attr.Error(err),
		)
	}
	return nil, nil
}
