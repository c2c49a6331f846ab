package milestone

import (
	"context"
	"fmt"
	"sync"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	milestonehandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/handlers"
	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	milestonerouter "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/router"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the milestone module.
type Module struct {
	MilestoneService milestoneservice.Service
	MilestoneRouter  *milestonerouter.MilestoneRouter
	cancelFunc       context.CancelFunc
	observability    observability.Observability
}

// NewMilestoneModule creates and initializes a new milestone module.
func NewMilestoneModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	membership platform.Membership,
	notifier platform.Notifier,
	channels milestoneservice.RankUpChannels,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "milestone.NewMilestoneModule initializing")

	repo := milestonedb.NewRepository(db)
	service := milestoneservice.NewMilestoneService(repo, membership, notifier, channels, logger, obs.Registry.Operations, tracer, db)
	handlers := milestonehandlers.NewMilestoneHandlers(service, logger, tracer)

	subscriber, err := eventBus.Subscriber("milestone")
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone subscriber: %w", err)
	}

	milestoneRouter := milestonerouter.NewMilestoneRouter(
		logger,
		router,
		subscriber,
		eventBus,
		helpers,
		tracer,
		obs.Registry.Operations,
	)

	if err := milestoneRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure milestone router: %w", err)
	}

	return &Module{
		MilestoneService: service,
		MilestoneRouter:  milestoneRouter,
		observability:    obs,
	}, nil
}

// Run starts the milestone module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting milestone module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Milestone module goroutine stopped")
}

// Close shuts down the milestone module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping milestone module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Milestone module stopped")
	return nil
}
