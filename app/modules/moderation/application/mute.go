package moderationservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	moderationdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/domain"
	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrMemberNotFound = fmt.Errorf("member not in guild: %w", apperrors.ErrNotFound)
	ErrNoMuteRoles    = fmt.Errorf("no mute roles found for this server: %w", apperrors.ErrNotFound)
	ErrInvalidLevel   = fmt.Errorf("mute level must be 1 or 2: %w", apperrors.ErrInvalidInput)
)

const defaultReason = "No reason provided"

// MuteStatus says whether a mute was applied.
type MuteStatus string

const (
	Muted        MuteStatus = "muted"
	AlreadyMuted MuteStatus = "already_muted"
)

// MuteInput is a moderator's mute request. Duration is a number of minutes
// or a phrase such as "in 2 hours".
type MuteInput struct {
	GuildID     sharedtypes.GuildID
	UserID      sharedtypes.DiscordID
	ChannelID   sharedtypes.ChannelID
	ModeratorID sharedtypes.DiscordID
	Level       int
	Duration    string
	Reason      string
}

// MuteResult describes an applied or refused mute.
type MuteResult struct {
	Status   MuteStatus
	Member   platform.Member
	RoleID   sharedtypes.RoleID
	Level    int
	Reason   string
	Duration time.Duration
	FireAt   time.Time
	ActionID uuid.UUID
}

// UnmuteResult lists the mute roles that were removed.
type UnmuteResult struct {
	Member    platform.Member
	Removed   []sharedtypes.RoleID
	Cancelled int
}

type muteResult = results.OperationResult[MuteResult, error]

// MuteMember grants the level's mute role, records the punishment and a
// revoke action, and queues the revoke at the expiry time.
func (s *ModerationService) MuteMember(ctx context.Context, in MuteInput) (MuteResult, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "MuteMember", string(in.UserID), func(ctx context.Context) (muteResult, error) {
		if in.Level != 1 && in.Level != 2 {
			return results.FailureResult[MuteResult, error](ErrInvalidLevel), nil
		}
		now := s.now().UTC()
		d, err := moderationdomain.ParseDuration(in.Duration, now)
		if err != nil {
			return results.FailureResult[MuteResult, error](err), nil
		}
		reason := in.Reason
		if reason == "" {
			reason = defaultReason
		}

		roleID, err := s.muteRoles.MuteRole(ctx, in.GuildID, in.Level)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidInput) {
				return results.FailureResult[MuteResult, error](err), nil
			}
			return muteResult{}, fmt.Errorf("failed to read mute role: %w", err)
		}

		member, err := s.membership.FetchMember(ctx, in.GuildID, in.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return results.FailureResult[MuteResult, error](ErrMemberNotFound), nil
			}
			return muteResult{}, fmt.Errorf("failed to fetch member: %w", err)
		}

		res := MuteResult{Member: member, RoleID: roleID, Level: in.Level, Reason: reason, Duration: d}
		if member.HasRole(roleID) {
			res.Status = AlreadyMuted
			return results.SuccessResult[MuteResult, error](res), nil
		}

		if failure, err := s.checkManageable(ctx, in.GuildID, roleID); failure != nil || err != nil {
			if err != nil {
				return muteResult{}, err
			}
			return results.FailureResult[MuteResult, error](failure), nil
		}

		if err := s.membership.AddRole(ctx, in.GuildID, in.UserID, roleID); err != nil {
			return muteResult{}, fmt.Errorf("failed to add mute role: %w", err)
		}

		action := &moderationdb.ScheduledAction{
			ID:        uuid.New(),
			GuildID:   in.GuildID,
			UserID:    in.UserID,
			Kind:      moderationdb.ActionRevokeRole,
			RoleID:    roleID,
			ChannelID: in.ChannelID,
			FireAt:    now.Add(d),
			Status:    moderationdb.StatusPending,
			Reason:    reason,
		}
		_, err = operations.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			if err := s.repo.CreatePunishment(ctx, db, &moderationdb.Punishment{
				ID:              uuid.New(),
				GuildID:         in.GuildID,
				UserID:          in.UserID,
				Kind:            moderationdb.PunishmentMute,
				Level:           in.Level,
				Reason:          reason,
				ModeratorID:     in.ModeratorID,
				DurationMinutes: int(d / time.Minute),
			}); err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			if err := s.repo.CreateAction(ctx, db, action); err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			return results.SuccessResult[bool, error](true), nil
		})
		if err != nil {
			// Without a revoke action the role would never expire.
			if rmErr := s.membership.RemoveRole(ctx, in.GuildID, in.UserID, roleID); rmErr != nil {
				s.logger.ErrorContext(ctx, "Failed to roll back mute role",
					attr.GuildID(in.GuildID),
					attr.UserID(in.UserID),
					attr.Error(rmErr),
				)
			}
			return muteResult{}, fmt.Errorf("failed to record mute: %w", err)
		}

		s.schedule(ctx, action.ID, action.FireAt)

		res.Status = Muted
		res.FireAt = action.FireAt
		res.ActionID = action.ID
		return results.SuccessResult[MuteResult, error](res), nil
	}))
}

// checkManageable returns a failure when the bot cannot assign roleID.
func (s *ModerationService) checkManageable(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (error, error) {
	role, err := s.membership.ResolveRole(ctx, guildID, roleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("mute role %s no longer exists: %w", roleID, apperrors.ErrNotFound), nil
		}
		return nil, fmt.Errorf("failed to resolve mute role: %w", err)
	}
	bot, err := s.membership.BotMember(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot member: %w", err)
	}
	if !bot.Outranks(role) {
		return fmt.Errorf("mute role %s at position %d: %w", roleID, role.Position, apperrors.ErrHierarchyViolation), nil
	}
	return nil, nil
}

func (s *ModerationService) schedule(ctx context.Context, id uuid.UUID, fireAt time.Time) {
	if s.scheduler == nil {
		s.logger.WarnContext(ctx, "No scheduler configured, action waits for recovery", attr.String("action_id", id.String()))
		return
	}
	if err := s.scheduler.Schedule(ctx, id, fireAt); err != nil {
		// The pending row stays; Recover enqueues it on the next start.
		s.logger.ErrorContext(ctx, "Failed to enqueue scheduled action",
			attr.String("action_id", id.String()),
			attr.Error(err),
		)
	}
}

// UnmuteMember removes both mute roles if held and cancels the member's
// pending revoke actions.
func (s *ModerationService) UnmuteMember(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (UnmuteResult, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "UnmuteMember", string(userID), func(ctx context.Context) (results.OperationResult[UnmuteResult, error], error) {
		var roles []sharedtypes.RoleID
		for _, level := range []int{1, 2} {
			role, err := s.muteRoles.MuteRole(ctx, guildID, level)
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			if err != nil {
				return results.OperationResult[UnmuteResult, error]{}, fmt.Errorf("failed to read mute role: %w", err)
			}
			roles = append(roles, role)
		}
		if len(roles) == 0 {
			return results.FailureResult[UnmuteResult, error](ErrNoMuteRoles), nil
		}

		member, err := s.membership.FetchMember(ctx, guildID, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return results.FailureResult[UnmuteResult, error](ErrMemberNotFound), nil
			}
			return results.OperationResult[UnmuteResult, error]{}, fmt.Errorf("failed to fetch member: %w", err)
		}

		res := UnmuteResult{Member: member}
		for _, role := range roles {
			if !member.HasRole(role) {
				continue
			}
			if err := s.membership.RemoveRole(ctx, guildID, userID, role); err != nil {
				return results.OperationResult[UnmuteResult, error]{}, fmt.Errorf("failed to remove mute role: %w", err)
			}
			res.Removed = append(res.Removed, role)
		}

		ids, err := operations.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]uuid.UUID, error], error) {
			ids, err := s.repo.CancelPendingActions(ctx, db, guildID, userID)
			if err != nil {
				return results.OperationResult[[]uuid.UUID, error]{}, err
			}
			return results.SuccessResult[[]uuid.UUID, error](ids), nil
		})
		if err != nil {
			return results.OperationResult[UnmuteResult, error]{}, err
		}
		if ids.Success != nil {
			res.Cancelled = len(*ids.Success)
			if s.scheduler != nil && res.Cancelled > 0 {
				if err := s.scheduler.Cancel(ctx, *ids.Success); err != nil {
					s.logger.WarnContext(ctx, "Failed to cancel queued jobs", attr.Error(err))
				}
			}
		}
		return results.SuccessResult[UnmuteResult, error](res), nil
	}))
}
