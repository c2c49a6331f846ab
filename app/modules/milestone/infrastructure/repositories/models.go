package milestonedb

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// MilestoneLevel binds a level to its reward role.
type MilestoneLevel struct {
	bun.BaseModel `bun:"table:milestone_levels,alias:ml"`
	GuildID       sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(20)"`
	Level         int                 `bun:"level,pk,notnull"`
	RewardRoleID  sharedtypes.RoleID  `bun:"reward_role_id,notnull,type:varchar(20)"`
	CreatedAt     time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
