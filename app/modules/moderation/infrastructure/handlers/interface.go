package moderationhandlers

import (
	"context"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
)

// Handlers handles the moderation commands.
type Handlers interface {
	HandleMute(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleUnmute(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error)
}
