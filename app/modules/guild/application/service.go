package guildservice

import (
	"log/slog"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// GuildService implements the Service interface.
type GuildService struct {
	repo     guilddb.Repository
	notifier platform.Notifier
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewGuildService creates a new GuildService.
func NewGuildService(
	repo guilddb.Repository,
	notifier platform.Notifier,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GuildService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuildService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

func (s *GuildService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "GuildService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}
