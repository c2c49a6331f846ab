package moderationservice

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
)

// Service defines the mute operations.
type Service interface {
	MuteMember(ctx context.Context, in MuteInput) (MuteResult, error)
	UnmuteMember(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (UnmuteResult, error)
	// FireAction runs a due scheduled action. Non-pending actions are skipped.
	FireAction(ctx context.Context, actionID uuid.UUID) error
	// Recover fires overdue pending actions and re-enqueues the rest.
	Recover(ctx context.Context) (RecoverReport, error)
	PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)
}

// MuteRoles resolves the configured mute role of a level.
type MuteRoles interface {
	MuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int) (sharedtypes.RoleID, error)
}

// Scheduler enqueues and cancels scheduled action jobs.
type Scheduler interface {
	Schedule(ctx context.Context, actionID uuid.UUID, fireAt time.Time) error
	Cancel(ctx context.Context, actionIDs []uuid.UUID) error
}

// EventPublisher emits events from work that runs outside a message handler.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, payload any) error
}
