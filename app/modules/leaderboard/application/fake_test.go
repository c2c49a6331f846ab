package leaderboardservice

import (
	"context"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// FakeProgress serves canned leaderboard rows.
type FakeProgress struct {
	trace []string

	Rows map[sharedtypes.GuildID][]levelingdb.UserProgress
	Err  error
}

// Trace returns the order of calls.
func (f *FakeProgress) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeProgress) Leaderboard(_ context.Context, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error) {
	f.trace = append(f.trace, "Leaderboard")
	if f.Err != nil {
		return nil, f.Err
	}
	rows := f.Rows[guildID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
