package levelinghandlers

import (
	"log/slog"

	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"go.opentelemetry.io/otel/trace"
)

// LevelingHandlers implements the Handlers interface.
type LevelingHandlers struct {
	service levelingservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLevelingHandlers creates a new LevelingHandlers instance.
func NewLevelingHandlers(
	service levelingservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LevelingHandlers{
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
