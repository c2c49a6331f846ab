package leveling

import (
	"context"
	"fmt"
	"sync"
	"time"

	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	levelinghandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/handlers"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	levelingrouter "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/router"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

const cooldownSweepInterval = 5 * time.Minute

// Module represents the leveling module.
type Module struct {
	LevelingService levelingservice.Service
	LevelingRouter  *levelingrouter.LevelingRouter
	service         *levelingservice.LevelingService
	cancelFunc      context.CancelFunc
	observability   observability.Observability
}

// NewLevelingModule creates and initializes a new leveling module.
func NewLevelingModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	membership platform.Membership,
	cfg levelingservice.Config,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leveling.NewLevelingModule initializing")

	repo := levelingdb.NewRepository(db)
	service := levelingservice.NewLevelingService(repo, membership, logger, obs.Registry.Operations, tracer, db, cfg)
	handlers := levelinghandlers.NewLevelingHandlers(service, logger, tracer)

	subscriber, err := eventBus.Subscriber("leveling")
	if err != nil {
		return nil, fmt.Errorf("failed to create leveling subscriber: %w", err)
	}

	levelingRouter := levelingrouter.NewLevelingRouter(
		logger,
		router,
		subscriber,
		eventBus,
		helpers,
		tracer,
		obs.Registry.Operations,
	)

	if err := levelingRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leveling router: %w", err)
	}

	return &Module{
		LevelingService: service,
		LevelingRouter:  levelingRouter,
		service:         service,
		observability:   obs,
	}, nil
}

// Run sweeps expired cooldown entries until the context ends.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leveling module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	ticker := time.NewTicker(cooldownSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Leveling module goroutine stopped")
			return
		case <-ticker.C:
			if n := m.service.SweepCooldowns(); n > 0 {
				logger.DebugContext(ctx, "Swept cooldown entries", attr.Int("count", n))
			}
		}
	}
}

// Close shuts down the leveling module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leveling module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Leveling module stopped")
	return nil
}
