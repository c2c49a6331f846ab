package guildhandlers

import (
	"context"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
)

// Handlers handles guild lifecycle, member and configuration events.
type Handlers interface {
	HandleGuildJoined(ctx context.Context, payload *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildLeft(ctx context.Context, payload *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error)
	HandleMemberJoined(ctx context.Context, payload *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error)
	HandleMemberLeft(ctx context.Context, payload *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetupChannel(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetupMuteRole(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error)
	HandleAuditRequested(ctx context.Context, payload *guildevents.AuditRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
