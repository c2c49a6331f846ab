package levelinghandlers

import (
	"context"

	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	levelingevents "github.com/Black-And-White-Club/senshi-bot/internal/events/leveling"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
)

// HandleMessageCreated requests a gap-fill at the member's stored level and
// then awards XP. The gap-fill runs for every message, cooldown or not.
func (h *LevelingHandlers) HandleMessageCreated(ctx context.Context, payload *discordevents.MessageCreatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LevelingHandlers.HandleMessageCreated")
	defer span.End()

	if payload.Bot || payload.GuildID == "" {
		return nil, nil
	}

	var results []handlerwrapper.Result

	level, err := h.service.StoredLevel(ctx, payload.GuildID, payload.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to read stored level", attr.GuildID(payload.GuildID), attr.UserID(payload.UserID), attr.Error(err))
	} else if level > 0 {
		results = append(results, handlerwrapper.Result{
			Topic: milestoneevents.GapFillRequestedV1,
			Payload: &milestoneevents.GapFillRequestedPayloadV1{
				GuildID: payload.GuildID,
				UserID:  payload.UserID,
				Level:   level,
			},
		})
	}

	change, err := h.service.RecordActivity(ctx, levelingservice.ActivityInput{
		GuildID:  payload.GuildID,
		UserID:   payload.UserID,
		Username: payload.DisplayName,
		Bot:      payload.Bot,
	})
	if err != nil {
		// The XP for this message is lost; redelivery would hit the cooldown anyway.
		h.logger.ErrorContext(ctx, "Failed to record activity",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(payload.GuildID),
			attr.UserID(payload.UserID),
			attr.Error(err),
		)
		return results, nil
	}

	if change.LeveledUp {
		h.logger.InfoContext(ctx, "Member leveled up",
			attr.GuildID(payload.GuildID),
			attr.UserID(payload.UserID),
			attr.Int("level", change.NewLevel),
		)
		results = append(results, handlerwrapper.Result{
			Topic: levelingevents.LevelUpV1,
			Payload: &levelingevents.LevelUpPayloadV1{
				GuildID:     payload.GuildID,
				UserID:      payload.UserID,
				ChannelID:   payload.ChannelID,
				DisplayName: payload.DisplayName,
				NewLevel:    change.NewLevel,
			},
		})
	}
	return results, nil
}

// HandleGuildConfigDeleted purges the guild's progress records.
func (h *LevelingHandlers) HandleGuildConfigDeleted(ctx context.Context, payload *guildevents.GuildConfigDeletedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LevelingHandlers.HandleGuildConfigDeleted")
	defer span.End()

	n, err := h.service.PurgeGuild(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "Purged guild progress", attr.GuildID(payload.GuildID), attr.Int64("rows", n))
	return nil, nil
}
