package levelingdb

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for user progress persistence.
type Repository interface {
	// GetProgress returns ErrNotFound when the member has no record.
	GetProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*UserProgress, error)

	// GetProgressForUpdate reads the record and locks the row for the enclosing transaction.
	GetProgressForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*UserProgress, error)

	// CreateProgress inserts a fresh record, keeping any existing one, and returns the stored row.
	CreateProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*UserProgress, error)

	// SaveProgress writes xp, level, message count and username.
	SaveProgress(ctx context.Context, db bun.IDB, progress *UserProgress) error

	// SetBio creates the record if needed and stores bio.
	SetBio(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error

	// ListGuildProgress returns every record in the guild.
	ListGuildProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]UserProgress, error)

	// TopProgress returns up to limit records ordered by level, then xp.
	TopProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]UserProgress, error)

	// DeleteGuild removes every record in the guild.
	DeleteGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
