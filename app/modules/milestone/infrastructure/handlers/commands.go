package milestonehandlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const noManageRoles = "You do not have permission to manage roles."

// HandleSetupMilestone binds the "role" option to the "level" option.
func (h *MilestoneHandlers) HandleSetupMilestone(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleSetupMilestone")
	defer span.End()

	if !payload.Can(discordevents.PermissionManageRoles) {
		return reply(payload, platform.EphemeralText(noManageRoles)), nil
	}

	level, err := strconv.Atoi(payload.Option("level"))
	if err != nil {
		return reply(payload, platform.EphemeralText("Please provide a valid level.")), nil
	}
	role := sharedtypes.RoleID(payload.Option("role"))
	guildID := payload.Interaction.GuildID

	if err := h.service.AddMilestone(ctx, guildID, level, role); err != nil {
		switch {
		case errors.Is(err, milestonedb.ErrMilestoneExists):
			return reply(payload, platform.EphemeralText(fmt.Sprintf("A milestone for level %d already exists.", level))), nil
		case errors.Is(err, apperrors.ErrInvalidInput):
			return reply(payload, platform.EphemeralText("Please provide a level of at least 1 and a role.")), nil
		}
		h.logger.ErrorContext(ctx, "Failed to add milestone",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(guildID),
			attr.Int("level", level),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText("An error occurred while setting the milestone. Please try again later.")), nil
	}

	results := reply(payload, platform.Text(fmt.Sprintf(
		"Milestone set! When a user reaches level %d, they will be granted the %s role.", level, role.Mention())))
	return append(results, milestoneAudit(payload, "Milestone Added",
		fmt.Sprintf("%s bound %s to level %d", payload.Interaction.UserID.Mention(), role.Mention(), level))), nil
}

// HandleRemoveMilestone unbinds the "level" option.
func (h *MilestoneHandlers) HandleRemoveMilestone(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleRemoveMilestone")
	defer span.End()

	if !payload.Can(discordevents.PermissionManageRoles) {
		return reply(payload, platform.EphemeralText(noManageRoles)), nil
	}

	level, err := strconv.Atoi(payload.Option("level"))
	if err != nil {
		return reply(payload, platform.EphemeralText("Please provide a valid level.")), nil
	}
	guildID := payload.Interaction.GuildID

	if err := h.service.RemoveMilestone(ctx, guildID, level); err != nil {
		if errors.Is(err, milestonedb.ErrMilestoneNotFound) {
			return reply(payload, platform.EphemeralText(fmt.Sprintf("No milestone found for level %d.", level))), nil
		}
		h.logger.ErrorContext(ctx, "Failed to remove milestone",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(guildID),
			attr.Int("level", level),
			attr.Error(err),
		)
		return reply(payload, platform.EphemeralText("An error occurred while removing the milestone. Please try again later.")), nil
	}

	results := reply(payload, platform.Text(fmt.Sprintf("Milestone for level %d has been removed.", level)))
	return append(results, milestoneAudit(payload, "Milestone Removed",
		fmt.Sprintf("%s removed the level %d milestone", payload.Interaction.UserID.Mention(), level))), nil
}

// HandleViewMilestones lists the guild's milestones.
func (h *MilestoneHandlers) HandleViewMilestones(ctx context.Context, payload *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleViewMilestones")
	defer span.End()

	bindings, err := h.service.ListMilestones(ctx, payload.Interaction.GuildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list milestones", attr.GuildID(payload.Interaction.GuildID), attr.Error(err))
		return reply(payload, platform.EphemeralText("An error occurred while fetching milestones. Please try again later.")), nil
	}
	return reply(payload, platform.Message{Embed: milestoneservice.MilestoneListEmbed(bindings)}), nil
}

func milestoneAudit(p *discordevents.CommandPayloadV1, title, description string) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: guildevents.AuditRequestedV1,
		Payload: &guildevents.AuditRequestedPayloadV1{
			GuildID:     p.Interaction.GuildID,
			Title:       title,
			Description: description,
		},
	}
}
