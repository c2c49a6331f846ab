package milestonedb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for milestone persistence.
type Repository interface {
	// ListMilestones returns the guild's bindings ordered by level.
	ListMilestones(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]MilestoneLevel, error)

	// CreateMilestone returns ErrMilestoneExists if the level is already bound.
	CreateMilestone(ctx context.Context, db bun.IDB, milestone *MilestoneLevel) error

	// DeleteMilestone returns ErrMilestoneNotFound if the level is not bound.
	DeleteMilestone(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int) error

	DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
