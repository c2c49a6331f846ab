package reactionroledb

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ReactionRole binds one emoji on one published message to a role.
type ReactionRole struct {
	bun.BaseModel `bun:"table:reaction_roles,alias:rr"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(20)"`
	MessageID     sharedtypes.MessageID `bun:"message_id,pk,notnull,type:varchar(20)"`
	Emoji         string                `bun:"emoji,pk,notnull"`
	ChannelID     sharedtypes.ChannelID `bun:"channel_id,notnull,type:varchar(20)"`
	RoleID        sharedtypes.RoleID    `bun:"role_id,notnull,type:varchar(20)"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
