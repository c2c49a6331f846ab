package milestonedb

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

var (
	ErrMilestoneNotFound = fmt.Errorf("milestone not found: %w", apperrors.ErrNotFound)
	ErrMilestoneExists   = fmt.Errorf("milestone already set for level: %w", apperrors.ErrDuplicate)
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new milestone repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListMilestones(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]MilestoneLevel, error) {
	db = r.resolveDB(db)
	var rows []MilestoneLevel
	err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		OrderExpr("level ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list milestones", err)
	}
	return rows, nil
}

func (r *Impl) CreateMilestone(ctx context.Context, db bun.IDB, milestone *MilestoneLevel) error {
	db = r.resolveDB(db)
	result, err := db.NewInsert().
		Model(milestone).
		On("CONFLICT (guild_id, level) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("create milestone", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("rows affected", err)
	}
	if rows == 0 {
		return ErrMilestoneExists
	}
	return nil
}

func (r *Impl) DeleteMilestone(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*MilestoneLevel)(nil)).
		Where("guild_id = ?", guildID).
		Where("level = ?", level).
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("delete milestone", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("rows affected", err)
	}
	if rows == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

func (r *Impl) DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*MilestoneLevel)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, apperrors.Persistence("delete guild milestones", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("rows affected", err)
	}
	return rows, nil
}
