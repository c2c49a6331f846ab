package moderationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ErrActionNotFound = fmt.Errorf("scheduled action not found: %w", apperrors.ErrNotFound)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new moderation repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreatePunishment(ctx context.Context, db bun.IDB, p *Punishment) error {
	db = r.resolveDB(db)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(p).Exec(ctx); err != nil {
		return apperrors.Persistence("create punishment", err)
	}
	return nil
}

func (r *Impl) ListPunishments(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]Punishment, error) {
	db = r.resolveDB(db)
	var rows []Punishment
	err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list punishments", err)
	}
	return rows, nil
}

func (r *Impl) CreateAction(ctx context.Context, db bun.IDB, action *ScheduledAction) error {
	db = r.resolveDB(db)
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	if action.Status == "" {
		action.Status = StatusPending
	}
	if _, err := db.NewInsert().Model(action).Exec(ctx); err != nil {
		return apperrors.Persistence("create scheduled action", err)
	}
	return nil
}

func (r *Impl) GetActionForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*ScheduledAction, error) {
	db = r.resolveDB(db)
	action := new(ScheduledAction)
	err := db.NewSelect().
		Model(action).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActionNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("get scheduled action", err)
	}
	return action, nil
}

func (r *Impl) UpdateAction(ctx context.Context, db bun.IDB, action *ScheduledAction) error {
	db = r.resolveDB(db)
	action.UpdatedAt = time.Now().UTC()
	_, err := db.NewUpdate().
		Model(action).
		Column("status", "attempts", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("update scheduled action", err)
	}
	return nil
}

func (r *Impl) ListPendingActions(ctx context.Context, db bun.IDB) ([]ScheduledAction, error) {
	db = r.resolveDB(db)
	var rows []ScheduledAction
	err := db.NewSelect().
		Model(&rows).
		Where("status = ?", StatusPending).
		OrderExpr("fire_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list pending actions", err)
	}
	return rows, nil
}

func (r *Impl) CancelPendingActions(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var ids []uuid.UUID
	_, err := db.NewUpdate().
		Model((*ScheduledAction)(nil)).
		Set("status = ?", StatusCancelled).
		Set("updated_at = ?", time.Now().UTC()).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Where("status = ?", StatusPending).
		Returning("id").
		Exec(ctx, &ids)
	if err != nil {
		return nil, apperrors.Persistence("cancel pending actions", err)
	}
	return ids, nil
}

func (r *Impl) DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	var total int64
	for _, model := range []any{(*ScheduledAction)(nil), (*Punishment)(nil)} {
		result, err := db.NewDelete().
			Model(model).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return 0, apperrors.Persistence("delete guild moderation rows", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, apperrors.Persistence("rows affected", err)
		}
		total += n
	}
	return total, nil
}
