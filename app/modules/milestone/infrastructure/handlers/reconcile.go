package milestonehandlers

import (
	"context"
	"strconv"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	levelingevents "github.com/Black-And-White-Club/senshi-bot/internal/events/leveling"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// HandleLevelUp runs grant-all for the new level. Failures are logged only.
func (h *MilestoneHandlers) HandleLevelUp(ctx context.Context, payload *levelingevents.LevelUpPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleLevelUp")
	defer span.End()

	outcomes, err := h.service.GrantAll(ctx, milestoneservice.LevelUpInput{
		GuildID:   payload.GuildID,
		UserID:    payload.UserID,
		ChannelID: payload.ChannelID,
		Level:     payload.NewLevel,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Grant-all failed",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.GuildID),
			attr.UserID(payload.UserID),
			attr.Error(err),
		)
		return nil, nil
	}
	return grantedAudit(payload.GuildID, payload.UserID, outcomes), nil
}

// HandleGapFillRequested silently backfills milestone roles.
func (h *MilestoneHandlers) HandleGapFillRequested(ctx context.Context, payload *milestoneevents.GapFillRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleGapFillRequested")
	defer span.End()

	outcomes, err := h.service.GapFill(ctx, payload.GuildID, payload.UserID, payload.Level)
	if err != nil {
		h.logger.WarnContext(ctx, "Gap-fill failed",
			attr.GuildID(payload.GuildID),
			attr.UserID(payload.UserID),
			attr.Error(err),
		)
		return nil, nil
	}
	return grantedAudit(payload.GuildID, payload.UserID, outcomes), nil
}

// HandleGuildConfigDeleted purges the guild's milestones.
func (h *MilestoneHandlers) HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "MilestoneHandlers.HandleGuildConfigDeleted")
	defer span.End()

	n, err := h.service.PurgeGuild(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "Purged guild milestones", attr.GuildID(payload.GuildID), attr.Int64("rows", n))
	return nil, nil
}

func grantedAudit(guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, outcomes []milestoneservice.RoleOutcome) []handlerwrapper.Result {
	var results []handlerwrapper.Result
	for _, o := range outcomes {
		if o.Kind != milestoneservice.Granted {
			continue
		}
		results = append(results, handlerwrapper.Result{
			Topic: guildevents.AuditRequestedV1,
			Payload: &guildevents.AuditRequestedPayloadV1{
				GuildID:     guildID,
				Title:       "Milestone Role Granted",
				Description: userID.Mention() + " received " + o.RoleID.Mention() + " for reaching level " + strconv.Itoa(o.Level),
			},
		})
	}
	return results
}
