package guildhandlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	guildservice "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

var channelCommands = map[string]guilddb.ChannelKind{
	discordevents.CommandSetupWelcome: guilddb.ChannelWelcome,
	discordevents.CommandSetupLogging: guilddb.ChannelLogging,
	discordevents.CommandSetupLevelUp: guilddb.ChannelRankUp,
}

// HandleSetupChannel stores the welcome, logging or rank-up channel.
func (h *GuildHandlers) HandleSetupChannel(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleSetupChannel")
	defer span.End()

	kind, ok := channelCommands[payload.Command]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", payload.Command)
	}
	if !payload.Can(discordevents.PermissionManageChannels) {
		return reply(payload, platform.EphemeralText("You do not have permission to manage channels.")), nil
	}

	channelID := sharedtypes.ChannelID(payload.Option("channel"))
	guildID := payload.Interaction.GuildID
	if err := h.service.SetChannel(ctx, guildID, kind, channelID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to set channel",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(guildID),
			attr.String("kind", string(kind)),
			attr.Error(err),
		)
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return reply(payload, platform.EphemeralText("Please select a valid text channel.")), nil
		}
		return reply(payload, platform.EphemeralText("An error occurred while setting the channel. Please try again later.")), nil
	}

	results := reply(payload, channelSetMessage(kind, channelID))
	results = append(results, handlerwrapper.Result{
		Topic: guildevents.AuditRequestedV1,
		Payload: &guildevents.AuditRequestedPayloadV1{
			GuildID:     guildID,
			Title:       "Configuration Updated",
			Description: fmt.Sprintf("%s set the %s channel to %s", payload.Interaction.UserID.Mention(), kind, channelID.Mention()),
		},
	})
	return results, nil
}

func channelSetMessage(kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) platform.Message {
	switch kind {
	case guilddb.ChannelWelcome:
		return platform.Message{Embed: &platform.Embed{
			Title:       "Welcome Channel Set",
			Description: "The welcome channel has been set to " + channelID.Mention(),
			Color:       0x0099FF,
		}}
	case guilddb.ChannelLogging:
		return platform.Message{Embed: &platform.Embed{
			Title:       "Logging Channel Set",
			Description: "Logging channel has been set to " + channelID.Mention(),
			Color:       0x2ECC71,
		}}
	default:
		return platform.Text(fmt.Sprintf("Rank-up messages will now be sent to %s.", channelID.Mention()))
	}
}

// HandleSetupMuteRole stores the level 1 or level 2 mute role.
func (h *GuildHandlers) HandleSetupMuteRole(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleSetupMuteRole")
	defer span.End()

	if !payload.Can(discordevents.PermissionManageRoles) {
		return reply(payload, platform.Message{Embed: &platform.Embed{
			Title:       "Permission Denied",
			Description: "You do not have permission to manage roles.",
			Color:       0xE74C3C,
		}}), nil
	}

	level, err := strconv.Atoi(payload.Option("level"))
	if err != nil {
		return reply(payload, platform.EphemeralText("Mute level must be 1 or 2.")), nil
	}
	roleID := sharedtypes.RoleID(payload.Option("role"))

	if err := h.service.SetMuteRole(ctx, payload.Interaction.GuildID, level, roleID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to set mute role",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.Interaction.GuildID),
			attr.Int("level", level),
			attr.Error(err),
		)
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return reply(payload, platform.EphemeralText("Mute level must be 1 or 2.")), nil
		}
		return reply(payload, platform.Message{Embed: &platform.Embed{
			Title:       "Error Setting Up Mute Roles",
			Description: "There was an error setting up the mute roles. Please try again later.",
			Color:       0xE74C3C,
		}}), nil
	}

	return reply(payload, platform.Message{Embed: &platform.Embed{
		Title:       "Mute Roles Set Up",
		Description: fmt.Sprintf("Level %d mute role set to %s.", level, roleID.Mention()),
		Color:       0x2ECC71,
	}}), nil
}

func guildAuditEntry(p *guildevents.AuditRequestedPayloadV1) guildservice.AuditEntry {
	return guildservice.AuditEntry{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
	}
}
