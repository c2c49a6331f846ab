package reactionrole

import (
	"context"
	"fmt"
	"sync"
	"time"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	reactionrolehandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/handlers"
	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	reactionrolerouter "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/router"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the reaction-role module.
type Module struct {
	ReactionRoleService *reactionroleservice.ReactionRoleService
	ReactionRoleRouter  *reactionrolerouter.ReactionRoleRouter
	cancelFunc          context.CancelFunc
	observability       observability.Observability
}

// NewReactionRoleModule creates the module and loads every stored reaction
// role into the cache before any reaction is handled.
func NewReactionRoleModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	membership platform.Membership,
	notifier platform.Notifier,
	awaiter platform.ReplyAwaiter,
	replyTimeout time.Duration,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "reactionrole.NewReactionRoleModule initializing")

	repo := reactionroledb.NewRepository(db)
	service := reactionroleservice.NewReactionRoleService(
		repo,
		membership,
		notifier,
		awaiter,
		utils.NewEventPublisher(eventBus, helpers),
		logger,
		obs.Registry.Operations,
		tracer,
		db,
		replyTimeout,
	)

	n, err := service.Rebuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reaction roles: %w", err)
	}
	logger.InfoContext(ctx, "Reaction role cache loaded", attr.Int("messages", n))

	handlers := reactionrolehandlers.NewReactionRoleHandlers(service, logger, tracer)

	subscriber, err := eventBus.Subscriber("reactionrole")
	if err != nil {
		return nil, fmt.Errorf("failed to create reactionrole subscriber: %w", err)
	}

	reactionRoleRouter := reactionrolerouter.NewReactionRoleRouter(
		logger,
		router,
		subscriber,
		eventBus,
		helpers,
		tracer,
		obs.Registry.Operations,
	)

	if err := reactionRoleRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure reactionrole router: %w", err)
	}

	return &Module{
		ReactionRoleService: service,
		ReactionRoleRouter:  reactionRoleRouter,
		observability:       obs,
	}, nil
}

// Run starts the reaction-role module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting reactionrole module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Reaction role module goroutine stopped")
}

// Close cancels running setups and waits for them.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping reactionrole module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.ReactionRoleService.Close()

	logger.Info("Reaction role module stopped")
	return nil
}
