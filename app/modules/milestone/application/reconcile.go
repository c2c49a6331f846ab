package milestoneservice

import (
	"context"
	"errors"
	"fmt"

	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// OutcomeKind classifies what happened to one milestone role.
type OutcomeKind string

const (
	Granted             OutcomeKind = "granted"
	AlreadyHeld         OutcomeKind = "already_held"
	SkippedMissingRole  OutcomeKind = "skipped_missing_role"
	SkippedHierarchy    OutcomeKind = "skipped_hierarchy"
	SkippedBelowHighest OutcomeKind = "skipped_below_highest"
	Failed              OutcomeKind = "failed"
)

// RoleOutcome is the result for one binding.
type RoleOutcome struct {
	Level  int
	RoleID sharedtypes.RoleID
	Kind   OutcomeKind
	Err    error
}

// LevelUpInput identifies the member who just leveled up.
type LevelUpInput struct {
	GuildID   sharedtypes.GuildID
	UserID    sharedtypes.DiscordID
	ChannelID sharedtypes.ChannelID
	Level     int
}

type outcomesResult = results.OperationResult[[]RoleOutcome, error]

// GrantAll walks the rewards up to in.Level. Held roles are announced again
// without any role change; missing ones are granted and announced.
func (s *MilestoneService) GrantAll(ctx context.Context, in LevelUpInput) ([]RoleOutcome, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "GrantAll", string(in.UserID), func(ctx context.Context) (outcomesResult, error) {
		bindings, err := s.index.RewardsUpTo(ctx, in.GuildID, in.Level)
		if err != nil {
			return outcomesResult{}, fmt.Errorf("failed to load milestones: %w", err)
		}

		channel := s.announceChannel(ctx, in)
		if len(bindings) == 0 {
			s.announce(ctx, in.GuildID, channel, KeepTrainingEmbed(in.UserID, in.Level))
			return results.SuccessResult[[]RoleOutcome, error](nil), nil
		}

		member, bot, err := s.members(ctx, in.GuildID, in.UserID)
		if err != nil {
			return outcomesResult{}, err
		}

		outcomes := make([]RoleOutcome, 0, len(bindings))
		for _, b := range bindings {
			role, out, ok := s.resolve(ctx, in.GuildID, b)
			if !ok {
				outcomes = append(outcomes, out)
				continue
			}

			if member.HasRole(role.ID) {
				outcomes = append(outcomes, RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: AlreadyHeld})
				s.announce(ctx, in.GuildID, channel, AlreadyHeldEmbed(in.UserID, b))
				continue
			}

			out = s.grant(ctx, in.GuildID, in.UserID, bot, role, b)
			outcomes = append(outcomes, out)
			if out.Kind == Granted {
				s.announce(ctx, in.GuildID, channel, GrantedEmbed(in.UserID, b))
			}
		}
		return results.SuccessResult[[]RoleOutcome, error](outcomes), nil
	}))
}

// GapFill grants, without announcing, the rewards up to level that sit above
// the member's current highest role. It never removes a role.
func (s *MilestoneService) GapFill(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) ([]RoleOutcome, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "GapFill", string(userID), func(ctx context.Context) (outcomesResult, error) {
		bindings, err := s.index.RewardsUpTo(ctx, guildID, level)
		if err != nil {
			return outcomesResult{}, fmt.Errorf("failed to load milestones: %w", err)
		}
		if len(bindings) == 0 {
			return results.SuccessResult[[]RoleOutcome, error](nil), nil
		}

		member, bot, err := s.members(ctx, guildID, userID)
		if err != nil {
			return outcomesResult{}, err
		}
		highest := member.Highest()

		outcomes := make([]RoleOutcome, 0, len(bindings))
		for _, b := range bindings {
			role, out, ok := s.resolve(ctx, guildID, b)
			if !ok {
				outcomes = append(outcomes, out)
				continue
			}
			if role.Position <= highest.Position {
				outcomes = append(outcomes, RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: SkippedBelowHighest})
				continue
			}
			if member.HasRole(role.ID) {
				outcomes = append(outcomes, RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: AlreadyHeld})
				continue
			}
			outcomes = append(outcomes, s.grant(ctx, guildID, userID, bot, role, b))
		}
		return results.SuccessResult[[]RoleOutcome, error](outcomes), nil
	}))
}

func (s *MilestoneService) members(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (platform.Member, platform.Member, error) {
	member, err := s.membership.FetchMember(ctx, guildID, userID)
	if err != nil {
		return platform.Member{}, platform.Member{}, fmt.Errorf("failed to fetch member: %w", err)
	}
	bot, err := s.membership.BotMember(ctx, guildID)
	if err != nil {
		return platform.Member{}, platform.Member{}, fmt.Errorf("failed to fetch bot member: %w", err)
	}
	return member, bot, nil
}

func (s *MilestoneService) resolve(ctx context.Context, guildID sharedtypes.GuildID, b milestonedomain.Binding) (platform.RoleHandle, RoleOutcome, bool) {
	role, err := s.membership.ResolveRole(ctx, guildID, b.RoleID)
	if err == nil {
		return role, RoleOutcome{}, true
	}
	kind := Failed
	if errors.Is(err, apperrors.ErrNotFound) {
		kind = SkippedMissingRole
	}
	s.logger.WarnContext(ctx, "Milestone role unavailable",
		attr.GuildID(guildID),
		attr.RoleID(b.RoleID),
		attr.Int("level", b.Level),
		attr.Error(err),
	)
	return platform.RoleHandle{}, RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: kind, Err: err}, false
}

func (s *MilestoneService) grant(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, bot platform.Member, role platform.RoleHandle, b milestonedomain.Binding) RoleOutcome {
	if !bot.Outranks(role) {
		err := fmt.Errorf("role %s at position %d: %w", role.ID, role.Position, apperrors.ErrHierarchyViolation)
		s.logger.WarnContext(ctx, "Bot role is not above milestone role",
			attr.GuildID(guildID),
			attr.RoleID(role.ID),
			attr.Error(err),
		)
		return RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: SkippedHierarchy, Err: err}
	}
	if err := s.membership.AddRole(ctx, guildID, userID, role.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to grant milestone role",
			attr.GuildID(guildID),
			attr.UserID(userID),
			attr.RoleID(role.ID),
			attr.Error(err),
		)
		return RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: Failed, Err: err}
	}
	return RoleOutcome{Level: b.Level, RoleID: b.RoleID, Kind: Granted}
}

func (s *MilestoneService) announceChannel(ctx context.Context, in LevelUpInput) sharedtypes.ChannelID {
	if s.channels == nil {
		return in.ChannelID
	}
	channel, err := s.channels.RankUpChannel(ctx, in.GuildID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read rank-up channel", attr.GuildID(in.GuildID), attr.Error(err))
	}
	if channel == "" {
		return in.ChannelID
	}
	return channel
}

func (s *MilestoneService) announce(ctx context.Context, guildID sharedtypes.GuildID, channel sharedtypes.ChannelID, embed *platform.Embed) {
	if channel == "" {
		return
	}
	if _, err := s.notifier.Send(ctx, channel, platform.Message{Embed: embed}); err != nil {
		s.logger.WarnContext(ctx, "Failed to send rank-up message",
			attr.GuildID(guildID),
			attr.String("channel_id", string(channel)),
			attr.Error(err),
		)
	}
}
