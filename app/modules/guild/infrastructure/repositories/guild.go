package guilddb

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

var (
	// ErrNotFound is returned when a guild has no config row.
	ErrNotFound = fmt.Errorf("server config not found: %w", apperrors.ErrNotFound)
	// ErrInvalidChannelKind is returned for an unknown channel kind.
	ErrInvalidChannelKind = fmt.Errorf("unknown channel kind: %w", apperrors.ErrInvalidInput)
	// ErrInvalidMuteLevel is returned when the mute level is not 1 or 2.
	ErrInvalidMuteLevel = fmt.Errorf("mute level must be 1 or 2: %w", apperrors.ErrInvalidInput)
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new server config repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*ServerConfig, error) {
	db = r.resolveDB(db)
	cfg := new(ServerConfig)
	err := db.NewSelect().
		Model(cfg).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Persistence("get server config", err)
	}
	return cfg, nil
}

func (r *Impl) EnsureConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, guildName string) (*ServerConfig, error) {
	db = r.resolveDB(db)
	cfg := &ServerConfig{
		GuildID:   guildID,
		GuildName: guildName,
		UpdatedAt: time.Now(),
	}
	_, err := db.NewInsert().
		Model(cfg).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("guild_name = EXCLUDED.guild_name").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, apperrors.Persistence("ensure server config", err)
	}
	return cfg, nil
}

func (r *Impl) SetChannel(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, kind ChannelKind, channelID sharedtypes.ChannelID) error {
	column, ok := kind.column()
	if !ok {
		return ErrInvalidChannelKind
	}
	return r.updateColumn(ctx, db, guildID, column, channelID)
}

func (r *Impl) SetMuteRole(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	var column string
	switch level {
	case 1:
		column = "mute_role_level_1_id"
	case 2:
		column = "mute_role_level_2_id"
	default:
		return ErrInvalidMuteLevel
	}
	return r.updateColumn(ctx, db, guildID, column, roleID)
}

func (r *Impl) updateColumn(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, column string, value any) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*ServerConfig)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("update server config "+column, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("rows affected", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*ServerConfig)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("delete server config", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("rows affected", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
