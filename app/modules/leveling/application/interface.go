package levelingservice

import (
	"context"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service defines the XP, profile and leaderboard operations.
type Service interface {
	// RecordActivity awards XP for one chat message.
	RecordActivity(ctx context.Context, in ActivityInput) (LevelChangeResult, error)

	// StoredLevel returns the member's persisted level, 0 when unknown.
	StoredLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (int, error)

	// GetProgress returns the member's record, creating it when missing.
	GetProgress(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*levelingdb.UserProgress, error)

	SetBio(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error

	// Profile builds the profile embed. It returns ErrMemberNotFound when the
	// user is not in the guild.
	Profile(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*platform.Embed, error)

	Leaderboard(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error)
	GuildMembers(ctx context.Context, guildID sharedtypes.GuildID) ([]levelingdb.UserProgress, error)
	PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)
}
