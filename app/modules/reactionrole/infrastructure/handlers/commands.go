package reactionrolehandlers

import (
	"context"
	"errors"
	"fmt"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	noManageRoles  = "You do not have permission to manage roles."
	noAdmin        = "You need the Administrator permission to refresh reaction roles."
	setupFailed    = "An error occurred while setting up reaction roles. Please try again later."
	refreshFailed  = "An error occurred while refreshing reaction roles."
	missingChannel = "Please choose the channel for the reaction role message."
)

// HandleSetupReactionRole starts the interactive setup and answers with the
// first prompt. The rest of the conversation happens in the invoking channel.
func (h *ReactionRoleHandlers) HandleSetupReactionRole(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ReactionRoleHandlers.HandleSetupReactionRole")
	defer span.End()

	if !payload.Can(discordevents.PermissionManageRoles) {
		return reply(payload, platform.EphemeralText(noManageRoles)), nil
	}
	channel := sharedtypes.ChannelID(payload.Option("channel"))
	if channel == "" {
		return reply(payload, platform.EphemeralText(missingChannel)), nil
	}

	err := h.service.StartConfigure(ctx, reactionroleservice.ConfigureRequest{
		GuildID:         payload.Interaction.GuildID,
		ChannelID:       channel,
		PromptChannelID: payload.Interaction.ChannelID,
		AdminID:         payload.Interaction.UserID,
	})
	if err != nil {
		if !errors.Is(err, reactionroleservice.ErrClosed) {
			h.logger.ErrorContext(ctx, "Failed to start reaction role setup",
				attr.ExtractCorrelationID(ctx),
				attr.GuildID(payload.Interaction.GuildID),
				attr.Error(err),
			)
		}
		return reply(payload, platform.EphemeralText(setupFailed)), nil
	}
	return reply(payload, platform.Text(reactionroleservice.IntroPrompt)), nil
}

// HandleRefreshReactions reloads the guild's reaction roles from storage.
func (h *ReactionRoleHandlers) HandleRefreshReactions(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ReactionRoleHandlers.HandleRefreshReactions")
	defer span.End()

	if !payload.Can(discordevents.PermissionAdministrator) {
		return reply(payload, platform.EphemeralText(noAdmin)), nil
	}

	n, err := h.service.RefreshGuild(ctx, payload.Interaction.GuildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to refresh reaction roles",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.Interaction.GuildID),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText(refreshFailed)), nil
	}
	return reply(payload, platform.Text(fmt.Sprintf("All reaction roles have been refreshed! %d reaction role messages loaded.", n))), nil
}
