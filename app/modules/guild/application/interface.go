package guildservice

import (
	"context"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service defines the guild configuration, greeting and audit operations.
type Service interface {
	EnsureConfig(ctx context.Context, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error)
	GetConfig(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.ServerConfig, error)
	SetChannel(ctx context.Context, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error
	SetMuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error
	DeleteConfig(ctx context.Context, guildID sharedtypes.GuildID) error

	// RankUpChannel returns "" when the guild has no rank-up channel.
	RankUpChannel(ctx context.Context, guildID sharedtypes.GuildID) (sharedtypes.ChannelID, error)
	// MuteRole returns ErrMuteRoleNotSet when the level has no role configured.
	MuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int) (sharedtypes.RoleID, error)

	WelcomeMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error)
	AnnounceArrival(ctx context.Context, channelID sharedtypes.ChannelID) error
	FarewellMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error)
	PostAudit(ctx context.Context, guildID sharedtypes.GuildID, entry AuditEntry) (bool, error)
}
