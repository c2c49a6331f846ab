package reactionroledb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for reaction-role persistence.
type Repository interface {
	// ListAll returns every binding, ordered by guild, message and creation.
	ListAll(ctx context.Context, db bun.IDB) ([]ReactionRole, error)
	ListGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]ReactionRole, error)

	// CreateBindings inserts the rows of one published message.
	CreateBindings(ctx context.Context, db bun.IDB, rows []ReactionRole) error

	DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
