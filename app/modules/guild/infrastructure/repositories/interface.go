package guilddb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for server config persistence.
type Repository interface {
	// GetConfig retrieves a guild's config. Returns ErrNotFound if absent.
	GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*ServerConfig, error)

	// EnsureConfig inserts a default config unless one exists and returns the stored row.
	EnsureConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, guildName string) (*ServerConfig, error)

	// SetChannel stores the channel used for kind.
	SetChannel(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, kind ChannelKind, channelID sharedtypes.ChannelID) error

	// SetMuteRole stores the mute role for level 1 or 2.
	SetMuteRole(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error

	// DeleteConfig removes the guild's config. Returns ErrNotFound if absent.
	DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error
}
