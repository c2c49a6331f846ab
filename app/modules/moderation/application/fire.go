package moderationservice

import (
	"context"
	"errors"
	"fmt"

	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	moderationevents "github.com/Black-And-White-Club/senshi-bot/internal/events/moderation"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecoverReport counts what Recover did with the pending actions.
type RecoverReport struct {
	Fired       int
	Rescheduled int
	Failed      int
}

type fireOutcome struct {
	action  moderationdb.ScheduledAction
	fired   bool
	removed bool
}

// FireAction revokes the mute role of a due action and marks it done.
// A failed role removal bumps the attempt count and returns the error so the
// queue retries.
func (s *ModerationService) FireAction(ctx context.Context, actionID uuid.UUID) error {
	out, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "FireAction", actionID.String(), func(ctx context.Context) (results.OperationResult[fireOutcome, error], error) {
		return operations.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[fireOutcome, error], error) {
			action, err := s.repo.GetActionForUpdate(ctx, db, actionID)
			if err != nil {
				if errors.Is(err, moderationdb.ErrActionNotFound) {
					return results.SuccessResult[fireOutcome, error](fireOutcome{}), nil
				}
				return results.OperationResult[fireOutcome, error]{}, err
			}
			if action.Status != moderationdb.StatusPending {
				return results.SuccessResult[fireOutcome, error](fireOutcome{action: *action}), nil
			}

			out := fireOutcome{action: *action, fired: true}
			member, err := s.membership.FetchMember(ctx, action.GuildID, action.UserID)
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				// Left the guild; nothing to revoke.
			case err != nil:
				return results.OperationResult[fireOutcome, error]{}, fmt.Errorf("failed to fetch member: %w", err)
			case member.HasRole(action.RoleID):
				if rmErr := s.membership.RemoveRole(ctx, action.GuildID, action.UserID, action.RoleID); rmErr != nil {
					action.Attempts++
					if err := s.repo.UpdateAction(ctx, db, action); err != nil {
						return results.OperationResult[fireOutcome, error]{}, err
					}
					// Commit the attempt count, surface the failure.
					return results.FailureResult[fireOutcome, error](fmt.Errorf("failed to remove mute role: %w", rmErr)), nil
				}
				out.removed = true
			}

			action.Attempts++
			action.Status = moderationdb.StatusDone
			if err := s.repo.UpdateAction(ctx, db, action); err != nil {
				return results.OperationResult[fireOutcome, error]{}, err
			}
			out.action = *action
			return results.SuccessResult[fireOutcome, error](out), nil
		})
	}))
	if err != nil {
		return err
	}
	if out.fired {
		s.announceExpiry(ctx, out)
	}
	return nil
}

func (s *ModerationService) announceExpiry(ctx context.Context, out fireOutcome) {
	a := out.action
	if out.removed && a.ChannelID != "" {
		if _, err := s.notifier.Send(ctx, a.ChannelID, mutedExpiredMessage(a.UserID)); err != nil {
			s.logger.WarnContext(ctx, "Failed to send unmute notice",
				attr.ChannelID(a.ChannelID),
				attr.UserID(a.UserID),
				attr.Error(err),
			)
		}
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, moderationevents.MuteExpiredV1, &moderationevents.MuteExpiredPayloadV1{
		ActionID: a.ID.String(),
		GuildID:  a.GuildID,
		UserID:   a.UserID,
		RoleID:   a.RoleID,
		Removed:  out.removed,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish mute expiry", attr.Error(err))
	}
	if !out.removed {
		return
	}
	if err := s.publisher.PublishEvent(ctx, guildevents.AuditRequestedV1, &guildevents.AuditRequestedPayloadV1{
		GuildID:     a.GuildID,
		Title:       "Mute Expired",
		Description: fmt.Sprintf("<@%s> was unmuted after their mute expired.", a.UserID),
		Color:       unmutedColor,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish audit entry", attr.Error(err))
	}
}

// Recover fires every overdue pending action and enqueues the rest.
// An overdue action that fails to fire is enqueued for the queue's retries.
func (s *ModerationService) Recover(ctx context.Context) (RecoverReport, error) {
	var report RecoverReport
	actions, err := s.repo.ListPendingActions(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("failed to list pending actions: %w", err)
	}
	now := s.now()
	for _, a := range actions {
		if a.FireAt.After(now) {
			s.schedule(ctx, a.ID, a.FireAt)
			report.Rescheduled++
			continue
		}
		if err := s.FireAction(ctx, a.ID); err != nil {
			s.logger.ErrorContext(ctx, "Overdue action failed, handing to queue",
				attr.String("action_id", a.ID.String()),
				attr.Error(err),
			)
			s.schedule(ctx, a.ID, now)
			report.Failed++
			continue
		}
		report.Fired++
	}
	s.logger.InfoContext(ctx, "Recovered scheduled actions",
		attr.Int("fired", report.Fired),
		attr.Int("rescheduled", report.Rescheduled),
		attr.Int("failed", report.Failed),
	)
	return report, nil
}

// PurgeGuild deletes the guild's punishments and actions. Queued jobs for
// deleted actions become no-ops.
func (s *ModerationService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "PurgeGuild", string(guildID), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		return operations.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[int64, error], error) {
			n, err := s.repo.DeleteGuild(ctx, db, guildID)
			if err != nil {
				return results.OperationResult[int64, error]{}, err
			}
			return results.SuccessResult[int64, error](n), nil
		})
	}))
}
