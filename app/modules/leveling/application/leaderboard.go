package levelingservice

import (
	"context"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

type progressListResult = results.OperationResult[[]levelingdb.UserProgress, error]

// Leaderboard returns the top members ordered by level, then XP.
func (s *LevelingService) Leaderboard(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	limit = min(limit, MaxLeaderboardSize)

	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "Leaderboard", string(guildID), func(ctx context.Context) (progressListResult, error) {
		rows, err := s.repo.TopProgress(ctx, nil, guildID, limit)
		if err != nil {
			return progressListResult{}, err
		}
		return results.SuccessResult[[]levelingdb.UserProgress, error](rows), nil
	}))
}

// GuildMembers returns every stored record of the guild.
func (s *LevelingService) GuildMembers(ctx context.Context, guildID sharedtypes.GuildID) ([]levelingdb.UserProgress, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "GuildMembers", string(guildID), func(ctx context.Context) (progressListResult, error) {
		rows, err := s.repo.ListGuildProgress(ctx, nil, guildID)
		if err != nil {
			return progressListResult{}, err
		}
		return results.SuccessResult[[]levelingdb.UserProgress, error](rows), nil
	}))
}

// PurgeGuild deletes every record of the guild.
func (s *LevelingService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "PurgeGuild", string(guildID), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		n, err := s.repo.DeleteGuild(ctx, nil, guildID)
		if err != nil {
			return results.OperationResult[int64, error]{}, err
		}
		return results.SuccessResult[int64, error](n), nil
	}))
}
