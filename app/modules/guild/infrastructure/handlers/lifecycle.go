package guildhandlers

import (
	"context"
	"errors"
	"log/slog"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
)

// HandleGuildJoined makes sure the guild has a config. It runs for every guild
// replayed on connect as well as for new invites.
func (h *GuildHandlers) HandleGuildJoined(ctx context.Context, payload *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleGuildJoined")
	defer span.End()

	if _, err := h.service.EnsureConfig(ctx, payload.GuildID, payload.GuildName); err != nil {
		return nil, err
	}

	if payload.Invited {
		h.logger.InfoContext(ctx, "Bot invited to guild",
			attr.GuildID(payload.GuildID),
			slog.String("guild_name", payload.GuildName),
		)
		if err := h.service.AnnounceArrival(ctx, payload.SystemChannelID); err != nil {
			h.logger.WarnContext(ctx, "Failed to greet new guild", attr.GuildID(payload.GuildID), attr.Error(err))
		}
	}
	return nil, nil
}

// HandleGuildLeft deletes the guild's config and announces the removal so every
// module purges its data for the guild.
func (h *GuildHandlers) HandleGuildLeft(ctx context.Context, payload *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleGuildLeft")
	defer span.End()

	if err := h.service.DeleteConfig(ctx, payload.GuildID); err != nil && !errors.Is(err, guilddb.ErrNotFound) {
		return nil, err
	}

	h.logger.InfoContext(ctx, "Bot removed from guild", attr.GuildID(payload.GuildID))

	return []handlerwrapper.Result{{
		Topic:   guildevents.GuildConfigDeletedV1,
		Payload: &guildevents.GuildConfigDeletedPayloadV1{GuildID: payload.GuildID},
	}}, nil
}

// HandleMemberJoined posts the welcome embed.
func (h *GuildHandlers) HandleMemberJoined(ctx context.Context, payload *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleMemberJoined")
	defer span.End()

	if _, err := h.service.WelcomeMember(ctx, payload); err != nil {
		h.logger.WarnContext(ctx, "Welcome message not sent", attr.GuildID(payload.GuildID), attr.Error(err))
	}
	return nil, nil
}

// HandleMemberLeft posts the goodbye embed.
func (h *GuildHandlers) HandleMemberLeft(ctx context.Context, payload *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleMemberLeft")
	defer span.End()

	if _, err := h.service.FarewellMember(ctx, payload); err != nil {
		h.logger.WarnContext(ctx, "Goodbye message not sent", attr.GuildID(payload.GuildID), attr.Error(err))
	}
	return nil, nil
}

// HandleAuditRequested posts an entry to the logging channel.
func (h *GuildHandlers) HandleAuditRequested(ctx context.Context, payload *guildevents.AuditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleAuditRequested")
	defer span.End()

	posted, err := h.service.PostAudit(ctx, payload.GuildID, guildAuditEntry(payload))
	if err != nil {
		h.logger.WarnContext(ctx, "Audit entry not posted", attr.GuildID(payload.GuildID), attr.Error(err))
		return nil, nil
	}
	if !posted {
		h.logger.DebugContext(ctx, "No logging channel configured", attr.GuildID(payload.GuildID))
	}
	return nil, nil
}
