package levelingservice

import (
	"context"
	"errors"
	"fmt"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ActivityInput describes one chat message.
type ActivityInput struct {
	GuildID  sharedtypes.GuildID
	UserID   sharedtypes.DiscordID
	Username string
	Bot      bool
}

// LevelChangeResult is NoChange unless LeveledUp is set.
type LevelChangeResult struct {
	LeveledUp bool
	NewLevel  int
	Awarded   int
	Progress  levelingdomain.Progress
}

// NoChange is returned for bots and cooldown hits.
var NoChange = LevelChangeResult{}

type activityResult = results.OperationResult[LevelChangeResult, error]

// RecordActivity awards XP for a message. Bots and users inside the cooldown
// window get NoChange without any storage access.
func (s *LevelingService) RecordActivity(ctx context.Context, in ActivityInput) (LevelChangeResult, error) {
	if in.Bot || in.GuildID == "" || in.UserID == "" {
		return NoChange, nil
	}
	if !s.cooldown.Allow(in.UserID) {
		return NoChange, nil
	}

	award := s.award()
	unlock := s.locks.Lock(recordKey{guild: in.GuildID, user: in.UserID})
	defer unlock()

	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "RecordActivity", string(in.UserID), func(ctx context.Context) (activityResult, error) {
		return operations.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (activityResult, error) {
			return s.applyAward(ctx, db, in, award)
		})
	}))
}

func (s *LevelingService) applyAward(ctx context.Context, db bun.IDB, in ActivityInput, award int) (activityResult, error) {
	row, err := s.repo.GetProgressForUpdate(ctx, db, in.GuildID, in.UserID)
	if errors.Is(err, levelingdb.ErrNotFound) {
		if _, err = s.repo.CreateProgress(ctx, db, in.GuildID, in.UserID, in.Username); err != nil {
			return activityResult{}, fmt.Errorf("failed to create user progress: %w", err)
		}
		row, err = s.repo.GetProgressForUpdate(ctx, db, in.GuildID, in.UserID)
	}
	if err != nil {
		return activityResult{}, fmt.Errorf("failed to load user progress: %w", err)
	}

	next, leveled := levelingdomain.Progress{XP: row.XP, Level: row.Level}.Apply(award)
	row.XP = next.XP
	row.Level = next.Level
	row.TotalMessages++
	if in.Username != "" {
		row.Username = in.Username
	}

	if err := s.repo.SaveProgress(ctx, db, row); err != nil {
		return activityResult{}, fmt.Errorf("failed to save user progress: %w", err)
	}

	res := LevelChangeResult{Awarded: award, Progress: next}
	if leveled {
		res.LeveledUp = true
		res.NewLevel = next.Level
	}
	return results.SuccessResult[LevelChangeResult, error](res), nil
}

// StoredLevel returns the persisted level without creating a record.
func (s *LevelingService) StoredLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (int, error) {
	row, err := s.repo.GetProgress(ctx, nil, guildID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Level, nil
}
