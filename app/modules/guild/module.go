package guild

import (
	"context"
	"fmt"
	"sync"

	guildservice "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/application"
	guildhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/handlers"
	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	guildrouter "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/router"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the guild module.
type Module struct {
	GuildService  guildservice.Service
	GuildRouter   *guildrouter.GuildRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGuildModule creates and initializes a new guild module.
func NewGuildModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	notifier platform.Notifier,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "guild.NewGuildModule initializing")

	repo := guilddb.NewRepository(db)
	service := guildservice.NewGuildService(repo, notifier, logger, obs.Registry.Operations, tracer, db)
	handlers := guildhandlers.NewGuildHandlers(service, logger, tracer)

	subscriber, err := eventBus.Subscriber("guild")
	if err != nil {
		return nil, fmt.Errorf("failed to create guild subscriber: %w", err)
	}

	guildRouter := guildrouter.NewGuildRouter(
		logger,
		router,
		subscriber,
		eventBus,
		helpers,
		tracer,
		obs.Registry.Operations,
	)

	if err := guildRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		GuildService:  service,
		GuildRouter:   guildRouter,
		observability: obs,
	}, nil
}

// Run starts the guild module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting guild module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild module goroutine stopped")
}

// Close shuts down the guild module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping guild module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Guild module stopped")
	return nil
}
