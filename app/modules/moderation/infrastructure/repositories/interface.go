package moderationdb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for punishments and scheduled actions.
type Repository interface {
	CreatePunishment(ctx context.Context, db bun.IDB, p *Punishment) error
	ListPunishments(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]Punishment, error)

	CreateAction(ctx context.Context, db bun.IDB, action *ScheduledAction) error
	// GetActionForUpdate locks the row until the transaction ends.
	// Returns ErrActionNotFound when missing.
	GetActionForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*ScheduledAction, error)
	UpdateAction(ctx context.Context, db bun.IDB, action *ScheduledAction) error
	ListPendingActions(ctx context.Context, db bun.IDB) ([]ScheduledAction, error)
	// CancelPendingActions marks the member's pending actions cancelled and
	// returns their ids.
	CancelPendingActions(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]uuid.UUID, error)

	// DeleteGuild removes punishments and actions of the guild.
	DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
