package milestoneservice

import (
	"context"

	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service defines the milestone index and role reconciliation operations.
type Service interface {
	// AddMilestone fails with milestonedb.ErrMilestoneExists and never overwrites.
	AddMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error
	// RemoveMilestone fails with milestonedb.ErrMilestoneNotFound.
	RemoveMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int) error
	ListMilestones(ctx context.Context, guildID sharedtypes.GuildID) ([]milestonedomain.Binding, error)
	GetRewardsUpTo(ctx context.Context, guildID sharedtypes.GuildID, level int) ([]milestonedomain.Binding, error)
	IsMilestoneLevel(ctx context.Context, guildID sharedtypes.GuildID, level int) (bool, error)
	ImportMilestones(ctx context.Context, guildID sharedtypes.GuildID, workbook []byte) (ImportReport, error)
	PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)

	// GrantAll grants every milestone role up to the new level and announces each one.
	GrantAll(ctx context.Context, in LevelUpInput) ([]RoleOutcome, error)
	// GapFill silently grants missing milestone roles above the member's highest role.
	GapFill(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) ([]RoleOutcome, error)
}

// RankUpChannels resolves where level-up announcements go.
type RankUpChannels interface {
	RankUpChannel(ctx context.Context, guildID sharedtypes.GuildID) (sharedtypes.ChannelID, error)
}
