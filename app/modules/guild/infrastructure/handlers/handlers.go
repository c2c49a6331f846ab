package guildhandlers

import (
	"log/slog"

	guildservice "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"go.opentelemetry.io/otel/trace"
)

// GuildHandlers implements the Handlers interface.
type GuildHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGuildHandlers creates a new GuildHandlers instance.
func NewGuildHandlers(
	service guildservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &GuildHandlers{
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
