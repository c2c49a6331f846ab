package reactionrolehandlers

import (
	"context"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
)

// Handlers handles reactions and the reaction-role commands.
type Handlers interface {
	HandleReactionAdded(ctx context.Context, payload *discordevents.ReactionPayloadV1) ([]handlerwrapper.Result, error)
	HandleReactionRemoved(ctx context.Context, payload *discordevents.ReactionPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetupReactionRole(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleRefreshReactions(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error)
}
