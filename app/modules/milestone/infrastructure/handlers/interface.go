package milestonehandlers

import (
	"context"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	levelingevents "github.com/Black-And-White-Club/senshi-bot/internal/events/leveling"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
)

// Handlers handles level-ups, gap-fill requests and the milestone commands.
type Handlers interface {
	HandleLevelUp(ctx context.Context, payload *levelingevents.LevelUpPayloadV1) ([]handlerwrapper.Result, error)
	HandleGapFillRequested(ctx context.Context, payload *milestoneevents.GapFillRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetupMilestone(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleRemoveMilestone(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleViewMilestones(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error)
}
