package moderationhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	moderationservice "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"go.opentelemetry.io/otel/trace"
)

const (
	noPermission    = "You do not have permission to manage roles"
	missingMuteUser = "Please mention a user to mute"
	muteRoleNotSet  = "Mute role not set for the specified level"
	muteFailed      = "Unable to mute the user"
	missingUnmute   = "Please mention a user to unmute"
	noMuteRoles     = "No mute roles found for this server"
	notMuted        = "User is not currently muted"
	unmuteFailed    = "Unable to unmute the user"
	memberNotFound  = "That user is not a member of this server"
	muteAboveBot    = "The mute role is above my highest role, so I cannot assign it"
)

// ModerationHandlers implements the Handlers interface.
type ModerationHandlers struct {
	service moderationservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewModerationHandlers creates a new ModerationHandlers instance.
func NewModerationHandlers(
	service moderationservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ModerationHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func reply(p *discordevents.CommandPayloadV1, msg platform.Message) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:   discordevents.InteractionReplyRequestedV1,
		Payload: discordevents.NewReply(p, msg),
	}}
}

func audit(guildID sharedtypes.GuildID, title, description string, color int) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: guildevents.AuditRequestedV1,
		Payload: &guildevents.AuditRequestedPayloadV1{
			GuildID:     guildID,
			Title:       title,
			Description: description,
			Color:       color,
		},
	}
}

// HandleMute applies a timed mute. Options: user, level, duration, reason.
func (h *ModerationHandlers) HandleMute(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ModerationHandlers.HandleMute")
	defer span.End()

	if !payload.Can(discordevents.PermissionKickMembers) {
		return reply(payload, platform.EphemeralText(noPermission)), nil
	}
	user := sharedtypes.DiscordID(payload.Option("user"))
	if user == "" {
		return reply(payload, platform.EphemeralText(missingMuteUser)), nil
	}
	level, err := strconv.Atoi(payload.Option("level"))
	if err != nil {
		level = 1
	}

	res, err := h.service.MuteMember(ctx, moderationservice.MuteInput{
		GuildID:     payload.Interaction.GuildID,
		UserID:      user,
		ChannelID:   payload.Interaction.ChannelID,
		ModeratorID: payload.Interaction.UserID,
		Level:       level,
		Duration:    payload.Option("duration"),
		Reason:      payload.Option("reason"),
	})
	if err != nil {
		return reply(payload, platform.EphemeralText(h.muteError(ctx, payload, err))), nil
	}

	if res.Status == moderationservice.AlreadyMuted {
		return reply(payload, moderationservice.AlreadyMutedMessage(res, payload.Interaction.UserID)), nil
	}
	out := reply(payload, moderationservice.MutedMessage(res, payload.Interaction.UserID))
	out = append(out, audit(payload.Interaction.GuildID, "Member Muted",
		fmt.Sprintf("<@%s> muted <@%s> at level %d for %d minute(s): %s",
			payload.Interaction.UserID, user, res.Level, int(res.Duration.Minutes()), res.Reason),
		0x2ECC71))
	return out, nil
}

func (h *ModerationHandlers) muteError(ctx context.Context, payload *discordevents.CommandPayloadV1, err error) string {
	switch {
	case errors.Is(err, moderationservice.ErrMemberNotFound):
		return memberNotFound
	case errors.Is(err, apperrors.ErrHierarchyViolation):
		return muteAboveBot
	case errors.Is(err, apperrors.ErrNotFound):
		return muteRoleNotSet
	case errors.Is(err, apperrors.ErrInvalidInput):
		return err.Error()
	}
	h.logger.ErrorContext(ctx, "Failed to mute member",
		attr.ExtractCorrelationID(ctx),
		attr.GuildID(payload.Interaction.GuildID),
		attr.Error(err),
	)
	return muteFailed
}

// HandleUnmute removes the mute roles and cancels the pending expiry.
func (h *ModerationHandlers) HandleUnmute(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ModerationHandlers.HandleUnmute")
	defer span.End()

	if !payload.Can(discordevents.PermissionKickMembers) {
		return reply(payload, platform.EphemeralText(noPermission)), nil
	}
	user := sharedtypes.DiscordID(payload.Option("user"))
	if user == "" {
		return reply(payload, platform.EphemeralText(missingUnmute)), nil
	}

	res, err := h.service.UnmuteMember(ctx, payload.Interaction.GuildID, user)
	switch {
	case errors.Is(err, moderationservice.ErrNoMuteRoles):
		return reply(payload, platform.EphemeralText(noMuteRoles)), nil
	case errors.Is(err, moderationservice.ErrMemberNotFound):
		return reply(payload, platform.EphemeralText(memberNotFound)), nil
	case err != nil:
		h.logger.ErrorContext(ctx, "Failed to unmute member",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.Interaction.GuildID),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText(unmuteFailed)), nil
	}

	if len(res.Removed) == 0 {
		return reply(payload, platform.EphemeralText(notMuted)), nil
	}
	out := reply(payload, moderationservice.UnmutedMessage(res.Member))
	out = append(out, audit(payload.Interaction.GuildID, "Member Unmuted",
		fmt.Sprintf("<@%s> unmuted <@%s>", payload.Interaction.UserID, user), 0x008080))
	return out, nil
}

// HandleGuildConfigDeleted purges the guild's moderation records.
func (h *ModerationHandlers) HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ModerationHandlers.HandleGuildConfigDeleted")
	defer span.End()

	n, err := h.service.PurgeGuild(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "Purged guild moderation records", attr.GuildID(payload.GuildID), attr.Int64("rows", n))
	return nil, nil
}
