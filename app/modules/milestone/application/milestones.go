package milestoneservice

import (
	"context"
	"errors"
	"fmt"

	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

type bindingsResult = results.OperationResult[[]milestonedomain.Binding, error]

// ImportReport counts the rows of a milestone import.
type ImportReport struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

func validateBinding(level int, roleID sharedtypes.RoleID) error {
	if level < 1 {
		return apperrors.Invalid("level must be at least 1")
	}
	if roleID == "" {
		return apperrors.Invalid("role is required")
	}
	return nil
}

// AddMilestone binds roleID to level.
func (s *MilestoneService) AddMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "AddMilestone", string(guildID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := validateBinding(level, roleID); err != nil {
			return results.FailureResult[bool, error](err), nil
		}
		err := s.repo.CreateMilestone(ctx, nil, &milestonedb.MilestoneLevel{
			GuildID:      guildID,
			Level:        level,
			RewardRoleID: roleID,
		})
		if errors.Is(err, milestonedb.ErrMilestoneExists) {
			return results.FailureResult[bool, error](err), nil
		}
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		s.index.Invalidate(guildID)
		return results.SuccessResult[bool, error](true), nil
	}))
	return err
}

// RemoveMilestone unbinds level.
func (s *MilestoneService) RemoveMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int) error {
	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "RemoveMilestone", string(guildID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		err := s.repo.DeleteMilestone(ctx, nil, guildID, level)
		if errors.Is(err, milestonedb.ErrMilestoneNotFound) {
			return results.FailureResult[bool, error](err), nil
		}
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		s.index.Invalidate(guildID)
		return results.SuccessResult[bool, error](true), nil
	}))
	return err
}

// ListMilestones returns every binding of the guild.
func (s *MilestoneService) ListMilestones(ctx context.Context, guildID sharedtypes.GuildID) ([]milestonedomain.Binding, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "ListMilestones", string(guildID), func(ctx context.Context) (bindingsResult, error) {
		all, err := s.index.All(ctx, guildID)
		if err != nil {
			return bindingsResult{}, err
		}
		return results.SuccessResult[[]milestonedomain.Binding, error](all), nil
	}))
}

// GetRewardsUpTo returns the bindings at or below level, ascending.
func (s *MilestoneService) GetRewardsUpTo(ctx context.Context, guildID sharedtypes.GuildID, level int) ([]milestonedomain.Binding, error) {
	return s.index.RewardsUpTo(ctx, guildID, level)
}

func (s *MilestoneService) IsMilestoneLevel(ctx context.Context, guildID sharedtypes.GuildID, level int) (bool, error) {
	return s.index.IsMilestoneLevel(ctx, guildID, level)
}

// ImportMilestones adds every binding of an xlsx workbook in one transaction.
// Levels that are already bound are counted as duplicates and left unchanged.
func (s *MilestoneService) ImportMilestones(ctx context.Context, guildID sharedtypes.GuildID, workbook []byte) (ImportReport, error) {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[ImportReport, error], error) {
		sheet, err := milestonedomain.ParseSheet(workbook)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidInput) {
				return results.FailureResult[ImportReport, error](err), nil
			}
			return results.OperationResult[ImportReport, error]{}, err
		}

		report := ImportReport{Invalid: sheet.Invalid}
		for _, b := range sheet.Bindings {
			err := s.repo.CreateMilestone(ctx, db, &milestonedb.MilestoneLevel{
				GuildID:      guildID,
				Level:        b.Level,
				RewardRoleID: b.RoleID,
			})
			switch {
			case errors.Is(err, milestonedb.ErrMilestoneExists):
				report.Duplicates++
			case err != nil:
				return results.OperationResult[ImportReport, error]{}, fmt.Errorf("failed to import level %d: %w", b.Level, err)
			default:
				report.Created++
			}
		}
		return results.SuccessResult[ImportReport, error](report), nil
	}

	report, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "ImportMilestones", string(guildID), func(ctx context.Context) (results.OperationResult[ImportReport, error], error) {
		return operations.RunInTx(ctx, s.db, importTx)
	}))
	if err == nil {
		s.index.Invalidate(guildID)
	}
	return report, err
}

// PurgeGuild deletes the guild's bindings and drops it from the index.
func (s *MilestoneService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	defer s.index.Invalidate(guildID)
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "PurgeGuild", string(guildID), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		n, err := s.repo.DeleteGuild(ctx, nil, guildID)
		if err != nil {
			return results.OperationResult[int64, error]{}, err
		}
		return results.SuccessResult[int64, error](n), nil
	}))
}
