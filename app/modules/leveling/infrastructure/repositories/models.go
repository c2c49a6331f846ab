package levelingdb

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// UserProgress is a member's XP record within one guild.
type UserProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(20)"`
	UserID        sharedtypes.DiscordID `bun:"user_id,pk,notnull,type:varchar(20)"`
	Username      string                `bun:"username,notnull,default:''"`
	XP            int                   `bun:"xp,notnull,default:0"`
	Level         int                   `bun:"level,notnull,default:0"`
	TotalMessages int64                 `bun:"total_messages,notnull,default:0"`
	Warnings      int                   `bun:"warnings,notnull,default:0"`
	Bio           *string               `bun:"bio"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
