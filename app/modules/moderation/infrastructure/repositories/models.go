package moderationdb

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActionKind is what a scheduled action does when it fires.
type ActionKind string

const ActionRevokeRole ActionKind = "revoke_role"

// ActionStatus is the lifecycle of a scheduled action.
type ActionStatus string

const (
	StatusPending   ActionStatus = "pending"
	StatusDone      ActionStatus = "done"
	StatusCancelled ActionStatus = "cancelled"
)

// ScheduledAction is a durable, future role change.
type ScheduledAction struct {
	bun.BaseModel `bun:"table:scheduled_actions,alias:sa"`
	ID            uuid.UUID             `bun:"id,pk,type:uuid"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(20)"`
	UserID        sharedtypes.DiscordID `bun:"user_id,notnull,type:varchar(20)"`
	Kind          ActionKind            `bun:"kind,notnull"`
	RoleID        sharedtypes.RoleID    `bun:"role_id,notnull,type:varchar(20)"`
	ChannelID     sharedtypes.ChannelID `bun:"channel_id,nullzero,type:varchar(20)"`
	FireAt        time.Time             `bun:"fire_at,notnull"`
	Status        ActionStatus          `bun:"status,notnull,default:'pending'"`
	Reason        string                `bun:"reason,nullzero"`
	Attempts      int                   `bun:"attempts,notnull,default:0"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// PunishmentKind classifies a punishment record.
type PunishmentKind string

const PunishmentMute PunishmentKind = "mute"

// Punishment is the moderation history of a member.
type Punishment struct {
	bun.BaseModel   `bun:"table:punishments,alias:p"`
	ID              uuid.UUID             `bun:"id,pk,type:uuid"`
	GuildID         sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(20)"`
	UserID          sharedtypes.DiscordID `bun:"user_id,notnull,type:varchar(20)"`
	Kind            PunishmentKind        `bun:"kind,notnull"`
	Level           int                   `bun:"level,notnull,default:0"`
	Reason          string                `bun:"reason,nullzero"`
	ModeratorID     sharedtypes.DiscordID `bun:"moderator_id,notnull,type:varchar(20)"`
	DurationMinutes int                   `bun:"duration_minutes,notnull,default:0"`
	CreatedAt       time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
