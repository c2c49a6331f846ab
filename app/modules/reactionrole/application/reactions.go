package reactionroleservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// ReactionEvent is a reaction added to or removed from a message.
type ReactionEvent struct {
	GuildID   sharedtypes.GuildID
	MessageID sharedtypes.MessageID
	UserID    sharedtypes.DiscordID
	Emoji     string
	Bot       bool
}

// ReactionOutcome says what a reaction did.
type ReactionOutcome string

const (
	ReactionIgnored   ReactionOutcome = "ignored"
	ReactionUnbound   ReactionOutcome = "unbound"
	ReactionNoPerms   ReactionOutcome = "no_permission"
	ReactionHierarchy ReactionOutcome = "hierarchy"
	ReactionApplied   ReactionOutcome = "applied"
)

type outcomeResult = results.OperationResult[ReactionOutcome, error]

// OnReactionAdd grants the role bound to the reaction.
func (s *ReactionRoleService) OnReactionAdd(ctx context.Context, ev ReactionEvent) (ReactionOutcome, error) {
	return s.onReaction(ctx, "OnReactionAdd", ev, s.membership.AddRole)
}

// OnReactionRemove takes the bound role away again.
func (s *ReactionRoleService) OnReactionRemove(ctx context.Context, ev ReactionEvent) (ReactionOutcome, error) {
	return s.onReaction(ctx, "OnReactionRemove", ev, s.membership.RemoveRole)
}

type roleMutation func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error

func (s *ReactionRoleService) onReaction(ctx context.Context, op string, ev ReactionEvent, mutate roleMutation) (ReactionOutcome, error) {
	if ev.Bot || ev.GuildID == "" {
		return ReactionIgnored, nil
	}
	roleID, ok := s.cache.Lookup(ev.GuildID, ev.MessageID, ev.Emoji)
	if !ok {
		return ReactionUnbound, nil
	}

	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), op, string(ev.UserID), func(ctx context.Context) (outcomeResult, error) {
		canManage, err := s.membership.CanManageRoles(ctx, ev.GuildID)
		if err != nil {
			return outcomeResult{}, fmt.Errorf("failed to check permissions: %w", err)
		}
		if !canManage {
			s.logger.WarnContext(ctx, "Missing Manage Roles permission for reaction role", attr.GuildID(ev.GuildID))
			return results.SuccessResult[ReactionOutcome, error](ReactionNoPerms), nil
		}

		role, err := s.membership.ResolveRole(ctx, ev.GuildID, roleID)
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Reaction role no longer exists", attr.GuildID(ev.GuildID), attr.RoleID(roleID))
			return results.SuccessResult[ReactionOutcome, error](ReactionUnbound), nil
		}
		if err != nil {
			return outcomeResult{}, fmt.Errorf("failed to resolve role: %w", err)
		}

		bot, err := s.membership.BotMember(ctx, ev.GuildID)
		if err != nil {
			return outcomeResult{}, fmt.Errorf("failed to fetch bot member: %w", err)
		}
		if !bot.Outranks(role) {
			s.logger.WarnContext(ctx, "Bot role is not above reaction role",
				attr.GuildID(ev.GuildID),
				attr.RoleID(roleID),
			)
			return results.SuccessResult[ReactionOutcome, error](ReactionHierarchy), nil
		}

		if err := mutate(ctx, ev.GuildID, ev.UserID, roleID); err != nil {
			return outcomeResult{}, fmt.Errorf("failed to update role %s: %w", roleID, err)
		}
		return results.SuccessResult[ReactionOutcome, error](ReactionApplied), nil
	}))
}
