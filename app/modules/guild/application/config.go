package guildservice

import (
	"context"
	"errors"
	"fmt"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ErrMuteRoleNotSet is returned when a guild has no mute role for the requested level.
var ErrMuteRoleNotSet = fmt.Errorf("mute role not set for the specified level: %w", apperrors.ErrNotFound)

type configResult = results.OperationResult[*guilddb.ServerConfig, error]

// EnsureConfig creates the guild's default config if it does not exist yet.
func (s *GuildService) EnsureConfig(ctx context.Context, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "EnsureConfig", string(guildID), func(ctx context.Context) (configResult, error) {
		if guildID == "" {
			return results.FailureResult[*guilddb.ServerConfig, error](apperrors.Invalid("guild id is required")), nil
		}
		cfg, err := s.repo.EnsureConfig(ctx, nil, guildID, guildName)
		if err != nil {
			return configResult{}, err
		}
		return results.SuccessResult[*guilddb.ServerConfig, error](cfg), nil
	}))
}

// GetConfig returns the guild's config or guilddb.ErrNotFound.
func (s *GuildService) GetConfig(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.ServerConfig, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "GetConfig", string(guildID), func(ctx context.Context) (configResult, error) {
		return s.getConfigLogic(ctx, nil, guildID)
	}))
}

func (s *GuildService) getConfigLogic(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (configResult, error) {
	cfg, err := s.repo.GetConfig(ctx, db, guildID)
	if err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return results.FailureResult[*guilddb.ServerConfig, error](err), nil
		}
		return configResult{}, fmt.Errorf("failed to get server config: %w", err)
	}
	return results.SuccessResult[*guilddb.ServerConfig, error](cfg), nil
}

// SetChannel stores one of the welcome, logging or rank-up channels.
func (s *GuildService) SetChannel(ctx context.Context, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error {
	setTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		if channelID == "" {
			return results.FailureResult[bool, error](apperrors.Invalid("channel is required")), nil
		}
		err := s.repo.SetChannel(ctx, db, guildID, kind, channelID)
		if errors.Is(err, guilddb.ErrNotFound) {
			// Commands can arrive before the join event has been processed.
			if _, err = s.repo.EnsureConfig(ctx, db, guildID, ""); err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			err = s.repo.SetChannel(ctx, db, guildID, kind, channelID)
		}
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return results.FailureResult[bool, error](err), nil
		}
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	}

	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "SetChannel", string(guildID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return operations.RunInTx(ctx, s.db, setTx)
	}))
	return err
}

// SetMuteRole stores the mute role for level 1 or 2.
func (s *GuildService) SetMuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	setTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		if roleID == "" {
			return results.FailureResult[bool, error](apperrors.Invalid("role is required")), nil
		}
		err := s.repo.SetMuteRole(ctx, db, guildID, level, roleID)
		if errors.Is(err, guilddb.ErrNotFound) {
			if _, err = s.repo.EnsureConfig(ctx, db, guildID, ""); err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			err = s.repo.SetMuteRole(ctx, db, guildID, level, roleID)
		}
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return results.FailureResult[bool, error](err), nil
		}
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	}

	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "SetMuteRole", string(guildID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return operations.RunInTx(ctx, s.db, setTx)
	}))
	return err
}

// DeleteConfig removes the guild's config row.
func (s *GuildService) DeleteConfig(ctx context.Context, guildID sharedtypes.GuildID) error {
	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "DeleteConfig", string(guildID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.repo.DeleteConfig(ctx, nil, guildID); err != nil {
			if errors.Is(err, guilddb.ErrNotFound) {
				return results.FailureResult[bool, error](err), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	}))
	return err
}

// RankUpChannel returns the configured rank-up channel or "".
func (s *GuildService) RankUpChannel(ctx context.Context, guildID sharedtypes.GuildID) (sharedtypes.ChannelID, error) {
	cfg, err := s.repo.GetConfig(ctx, nil, guildID)
	if err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return cfg.RankUpChannelID, nil
}

// MuteRole returns the mute role for level.
func (s *GuildService) MuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int) (sharedtypes.RoleID, error) {
	if level != 1 && level != 2 {
		return "", guilddb.ErrInvalidMuteLevel
	}
	cfg, err := s.repo.GetConfig(ctx, nil, guildID)
	if err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return "", ErrMuteRoleNotSet
		}
		return "", err
	}
	role := cfg.MuteRole(level)
	if role == "" {
		return "", ErrMuteRoleNotSet
	}
	return role, nil
}
