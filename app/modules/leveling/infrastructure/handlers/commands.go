package levelinghandlers

import (
	"context"
	"errors"
	"fmt"

	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// HandleProfile replies with the profile of the "user" option, or the invoker.
func (h *LevelingHandlers) HandleProfile(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LevelingHandlers.HandleProfile")
	defer span.End()

	target := sharedtypes.DiscordID(payload.Option("user"))
	if target == "" {
		target = payload.Interaction.UserID
	}

	embed, err := h.service.Profile(ctx, payload.Interaction.GuildID, target)
	if err != nil {
		if errors.Is(err, levelingservice.ErrMemberNotFound) {
			return reply(payload, platform.EphemeralText("User is not in this server.")), nil
		}
		h.logger.ErrorContext(ctx, "Failed to build profile",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.Interaction.GuildID),
			attr.UserID(target),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText("There was an error generating this user's profile. Please try again later.")), nil
	}
	return reply(payload, platform.Message{Embed: embed}), nil
}

// HandleSetBio stores the invoker's bio.
func (h *LevelingHandlers) HandleSetBio(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LevelingHandlers.HandleSetBio")
	defer span.End()

	bio := payload.Option("bio")
	err := h.service.SetBio(ctx, payload.Interaction.GuildID, payload.Interaction.UserID, payload.InvokerName, bio)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return reply(payload, platform.EphemeralText("Please provide a bio of at most 1024 characters.")), nil
		}
		h.logger.ErrorContext(ctx, "Failed to set bio",
			attr.ExtractCorrelationID(ctx),
			attr.UserID(payload.Interaction.UserID),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText("There was an error updating your bio.")), nil
	}

	return reply(payload, platform.Message{
		Ephemeral: true,
		Embed: &platform.Embed{
			Title:       "Bio Updated",
			Description: "Your bio has been successfully updated!",
			Color:       0x00FF00,
			Fields:      []platform.EmbedField{{Name: "Your new bio", Value: bio}},
			Footer:      "Updated by " + payload.InvokerName,
		},
	}), nil
}

// HandleResyncMilestones requests a gap-fill for every stored member of the guild.
func (h *LevelingHandlers) HandleResyncMilestones(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LevelingHandlers.HandleResyncMilestones")
	defer span.End()

	if !payload.Can(discordevents.PermissionManageRoles) {
		return reply(payload, platform.EphemeralText("You do not have permission to manage roles.")), nil
	}

	guildID := payload.Interaction.GuildID
	members, err := h.service.GuildMembers(ctx, guildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list members for resync", attr.GuildID(guildID), attr.Error(err))
		return reply(payload, platform.EphemeralText("An error occurred while resyncing milestone roles.")), nil
	}

	results := make([]handlerwrapper.Result, 0, len(members)+1)
	for _, m := range members {
		if m.Level <= 0 {
			continue
		}
		results = append(results, handlerwrapper.Result{
			Topic: milestoneevents.GapFillRequestedV1,
			Payload: &milestoneevents.GapFillRequestedPayloadV1{
				GuildID: guildID,
				UserID:  m.UserID,
				Level:   m.Level,
			},
		})
	}

	h.logger.InfoContext(ctx, "Milestone resync requested", attr.GuildID(guildID), attr.Int("members", len(results)))
	msg := platform.EphemeralText(fmt.Sprintf("Resyncing milestone roles for %d members.", len(results)))
	return append(results, reply(payload, msg)...), nil
}
