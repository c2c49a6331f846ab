package leaderboardservice

import (
	"context"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service renders the dashboard's leaderboard views.
type Service interface {
	Standings(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]Entry, error)
	// ExportWorkbook returns the standings as an xlsx file.
	ExportWorkbook(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error)
	// StandingsChart returns the standings as a PNG bar chart.
	StandingsChart(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error)
	// LevelCurveChart plots the cumulative XP threshold of levels 0..maxLevel.
	LevelCurveChart(ctx context.Context, maxLevel int) ([]byte, error)
}

// ProgressSource lists the top members of a guild.
type ProgressSource interface {
	Leaderboard(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error)
}

// Entry is one leaderboard row.
type Entry struct {
	Rank          int                   `json:"rank"`
	UserID        sharedtypes.DiscordID `json:"user_id"`
	Username      string                `json:"username"`
	Level         int                   `json:"level"`
	XP            int                   `json:"xp"`
	NextLevelXP   int                   `json:"next_level_xp"`
	TotalXP       int                   `json:"total_xp"`
	TotalMessages int64                 `json:"total_messages"`
}

// Label is the display name of the row, falling back to the user id.
func (e Entry) Label() string {
	if e.Username != "" {
		return e.Username
	}
	return string(e.UserID)
}
