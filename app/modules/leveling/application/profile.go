package levelingservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// ErrMemberNotFound is returned when the profile target is not in the guild.
var ErrMemberNotFound = fmt.Errorf("member not in guild: %w", apperrors.ErrNotFound)

const (
	defaultBio    = "This user hasn't set a bio yet"
	profileFooter = "*Tip: Use the appropriate command to update your bio*"
	maxBioLength  = 1024
)

type progressResult = results.OperationResult[*levelingdb.UserProgress, error]

// GetProgress returns the member's record, creating an empty one first.
func (s *LevelingService) GetProgress(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*levelingdb.UserProgress, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "GetProgress", string(userID), func(ctx context.Context) (progressResult, error) {
		return s.getOrCreate(ctx, guildID, userID, username)
	}))
}

func (s *LevelingService) getOrCreate(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (progressResult, error) {
	row, err := s.repo.GetProgress(ctx, nil, guildID, userID)
	if errors.Is(err, levelingdb.ErrNotFound) {
		row, err = s.repo.CreateProgress(ctx, nil, guildID, userID, username)
	}
	if err != nil {
		return progressResult{}, fmt.Errorf("failed to get user progress: %w", err)
	}
	return results.SuccessResult[*levelingdb.UserProgress, error](row), nil
}

// SetBio stores the member's bio.
func (s *LevelingService) SetBio(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error {
	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "SetBio", string(userID), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		bio = strings.TrimSpace(bio)
		if bio == "" {
			return results.FailureResult[bool, error](apperrors.Invalid("bio is empty")), nil
		}
		if len([]rune(bio)) > maxBioLength {
			return results.FailureResult[bool, error](apperrors.Invalid("bio is longer than %d characters", maxBioLength)), nil
		}
		if err := s.repo.SetBio(ctx, nil, guildID, userID, username, bio); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	}))
	return err
}

// Profile builds the profile embed for a guild member.
func (s *LevelingService) Profile(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*platform.Embed, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "Profile", string(userID), func(ctx context.Context) (results.OperationResult[*platform.Embed, error], error) {
		member, err := s.membership.FetchMember(ctx, guildID, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return results.FailureResult[*platform.Embed, error](ErrMemberNotFound), nil
			}
			return results.OperationResult[*platform.Embed, error]{}, fmt.Errorf("failed to fetch member: %w", err)
		}

		res, err := s.getOrCreate(ctx, guildID, userID, member.DisplayName)
		if err != nil {
			return results.OperationResult[*platform.Embed, error]{}, err
		}
		return results.SuccessResult[*platform.Embed, error](ProfileEmbed(member, *res.Success)), nil
	}))
}

// ProfileEmbed renders a member's progress.
func ProfileEmbed(member platform.Member, row *levelingdb.UserProgress) *platform.Embed {
	bio := defaultBio
	if row.Bio != nil && *row.Bio != "" {
		bio = *row.Bio
	}

	gap := levelingdomain.Gap(row.Level)
	progress := fmt.Sprintf("`%s` (%d/%d XP)", levelingdomain.ProgressBar(row.XP, row.Level), row.XP, gap)

	return &platform.Embed{
		Title:       member.DisplayName + "'s Profile",
		Description: bio,
		Color:       levelingdomain.BandColor(row.Level),
		Thumbnail:   member.AvatarURL,
		Fields: []platform.EmbedField{
			{Name: "Level", Value: strconv.Itoa(row.Level), Inline: true},
			{Name: "XP", Value: strconv.Itoa(row.XP), Inline: true},
			{Name: "Progress", Value: progress, Inline: true},
			{Name: "Roles", Value: roleMentions(member), Inline: true},
		},
		Footer: profileFooter,
	}
}

func roleMentions(member platform.Member) string {
	mentions := make([]string, 0, len(member.Roles))
	for _, r := range member.Roles {
		// @everyone shares the guild's id.
		if string(r.ID) == string(member.GuildID) {
			continue
		}
		mentions = append(mentions, r.ID.Mention())
	}
	if len(mentions) == 0 {
		return "No roles"
	}
	return strings.Join(mentions, " ")
}
