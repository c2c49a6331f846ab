package milestoneservice

import (
	"context"
	"log/slog"

	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// MilestoneService implements the Service interface.
type MilestoneService struct {
	repo       milestonedb.Repository
	index      *milestonedomain.Index
	membership platform.Membership
	notifier   platform.Notifier
	channels   RankUpChannels
	logger     *slog.Logger
	metrics    metrics.OperationMetrics
	tracer     trace.Tracer
	db         *bun.DB
}

// NewMilestoneService creates a new MilestoneService with an empty index.
func NewMilestoneService(
	repo milestonedb.Repository,
	membership platform.Membership,
	notifier platform.Notifier,
	channels RankUpChannels,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MilestoneService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MilestoneService{
		repo:       repo,
		membership: membership,
		notifier:   notifier,
		channels:   channels,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
	}
	s.index = milestonedomain.NewIndex(s.loadBindings)
	return s
}

func (s *MilestoneService) loadBindings(ctx context.Context, guildID sharedtypes.GuildID) ([]milestonedomain.Binding, error) {
	rows, err := s.repo.ListMilestones(ctx, nil, guildID)
	if err != nil {
		return nil, err
	}
	out := make([]milestonedomain.Binding, 0, len(rows))
	for _, r := range rows {
		out = append(out, milestonedomain.Binding{Level: r.Level, RoleID: r.RewardRoleID})
	}
	return out, nil
}

func (s *MilestoneService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "MilestoneService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}
