package milestonehandlers

import (
	"log/slog"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"go.opentelemetry.io/otel/trace"
)

// MilestoneHandlers implements the Handlers interface.
type MilestoneHandlers struct {
	service milestoneservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMilestoneHandlers creates a new MilestoneHandlers instance.
func NewMilestoneHandlers(
	service milestoneservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &MilestoneHandlers{
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
