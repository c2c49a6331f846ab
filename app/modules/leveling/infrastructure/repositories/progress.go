package levelingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a member has no progress record.
var ErrNotFound = fmt.Errorf("user progress not found: %w", apperrors.ErrNotFound)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user progress repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*UserProgress, error) {
	return r.get(ctx, r.resolveDB(db), guildID, userID, false)
}

func (r *Impl) GetProgressForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*UserProgress, error) {
	return r.get(ctx, r.resolveDB(db), guildID, userID, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, lock bool) (*UserProgress, error) {
	progress := new(UserProgress)
	q := db.NewSelect().
		Model(progress).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Persistence("get user progress", err)
	}
	return progress, nil
}

func (r *Impl) CreateProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*UserProgress, error) {
	db = r.resolveDB(db)
	progress := &UserProgress{
		GuildID:  guildID,
		UserID:   userID,
		Username: username,
	}
	_, err := db.NewInsert().
		Model(progress).
		On("CONFLICT (guild_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, apperrors.Persistence("create user progress", err)
	}
	return r.get(ctx, db, guildID, userID, false)
}

func (r *Impl) SaveProgress(ctx context.Context, db bun.IDB, progress *UserProgress) error {
	db = r.resolveDB(db)
	progress.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(progress).
		On("CONFLICT (guild_id, user_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("xp = EXCLUDED.xp").
		Set("level = EXCLUDED.level").
		Set("total_messages = EXCLUDED.total_messages").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("save user progress", err)
	}
	return nil
}

func (r *Impl) SetBio(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error {
	db = r.resolveDB(db)
	progress := &UserProgress{
		GuildID:   guildID,
		UserID:    userID,
		Username:  username,
		Bio:       &bio,
		UpdatedAt: time.Now(),
	}
	_, err := db.NewInsert().
		Model(progress).
		On("CONFLICT (guild_id, user_id) DO UPDATE").
		Set("bio = EXCLUDED.bio").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("set bio", err)
	}
	return nil
}

func (r *Impl) ListGuildProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]UserProgress, error) {
	db = r.resolveDB(db)
	var rows []UserProgress
	err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		OrderExpr("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list user progress", err)
	}
	return rows, nil
}

func (r *Impl) TopProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]UserProgress, error) {
	db = r.resolveDB(db)
	var rows []UserProgress
	err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		OrderExpr("level DESC, xp DESC, user_id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("top user progress", err)
	}
	return rows, nil
}

func (r *Impl) DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*UserProgress)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, apperrors.Persistence("delete guild progress", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("rows affected", err)
	}
	return rows, nil
}
