package reactionroledb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new reaction-role repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListAll(ctx context.Context, db bun.IDB) ([]ReactionRole, error) {
	db = r.resolveDB(db)
	var rows []ReactionRole
	err := db.NewSelect().
		Model(&rows).
		OrderExpr("guild_id, message_id, created_at, emoji").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list reaction roles", err)
	}
	return rows, nil
}

func (r *Impl) ListGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]ReactionRole, error) {
	db = r.resolveDB(db)
	var rows []ReactionRole
	err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		OrderExpr("message_id, created_at, emoji").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list guild reaction roles", err)
	}
	return rows, nil
}

func (r *Impl) CreateBindings(ctx context.Context, db bun.IDB, rows []ReactionRole) error {
	if len(rows) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return apperrors.Persistence("create reaction roles", err)
	}
	return nil
}

func (r *Impl) DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*ReactionRole)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, apperrors.Persistence("delete guild reaction roles", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("rows affected", err)
	}
	return rows, nil
}
