package levelinghandlers

import (
	"context"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
)

// Handlers handles chat activity and the leveling commands.
type Handlers interface {
	HandleMessageCreated(ctx context.Context, payload *discordevents.MessageCreatedPayloadV1) ([]handlerwrapper.Result, error)
	HandleProfile(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetBio(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleResyncMilestones(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error)
}
