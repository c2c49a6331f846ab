package moderationservice

import (
	"log/slog"
	"time"

	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ModerationService implements the Service interface.
type ModerationService struct {
	repo       moderationdb.Repository
	membership platform.Membership
	notifier   platform.Notifier
	muteRoles  MuteRoles
	scheduler  Scheduler
	publisher  EventPublisher
	logger     *slog.Logger
	metrics    metrics.OperationMetrics
	tracer     trace.Tracer
	db         *bun.DB
	now        func() time.Time
}

// NewModerationService creates a ModerationService. The scheduler may be set
// later with SetScheduler, since the queue needs the service as its runner.
func NewModerationService(
	repo moderationdb.Repository,
	membership platform.Membership,
	notifier platform.Notifier,
	muteRoles MuteRoles,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ModerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModerationService{
		repo:       repo,
		membership: membership,
		notifier:   notifier,
		muteRoles:  muteRoles,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		now:        time.Now,
	}
}

func (s *ModerationService) SetScheduler(scheduler Scheduler) { s.scheduler = scheduler }

// WithClock replaces the time source.
func (s *ModerationService) WithClock(now func() time.Time) *ModerationService {
	s.now = now
	return s
}

func (s *ModerationService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "ModerationService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}
