package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	moderationservice "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/application"
	moderationhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/handlers"
	moderationqueue "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/queue"
	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	moderationrouter "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/router"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the moderation module.
type Module struct {
	ModerationService *moderationservice.ModerationService
	ModerationRouter  *moderationrouter.ModerationRouter
	QueueService      *moderationqueue.Service
	cancelFunc        context.CancelFunc
	observability     observability.Observability
}

// NewModerationModule creates the moderation module and its River queue.
// muteRoles is normally the guild service.
func NewModerationModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	dsn string,
	membership platform.Membership,
	notifier platform.Notifier,
	muteRoles moderationservice.MuteRoles,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "moderation.NewModerationModule initializing")

	repo := moderationdb.NewRepository(db)
	service := moderationservice.NewModerationService(
		repo,
		membership,
		notifier,
		muteRoles,
		utils.NewEventPublisher(eventBus, helpers),
		logger,
		obs.Registry.Operations,
		tracer,
		db,
	)

	queueService, err := moderationqueue.NewService(ctx, db, logger, dsn, obs.Registry.Operations, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation queue: %w", err)
	}
	service.SetScheduler(queueService)

	handlers := moderationhandlers.NewModerationHandlers(service, logger, tracer)

	subscriber, err := eventBus.Subscriber("moderation")
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation subscriber: %w", err)
	}

	moderationRouter := moderationrouter.NewModerationRouter(
		logger,
		router,
		subscriber,
		eventBus,
		helpers,
		tracer,
		obs.Registry.Operations,
	)

	if err := moderationRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure moderation router: %w", err)
	}

	return &Module{
		ModerationService: service,
		ModerationRouter:  moderationRouter,
		QueueService:      queueService,
		observability:     obs,
	}, nil
}

// Run starts the queue, recovers pending actions and blocks until ctx ends.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting moderation module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Moderation module goroutine stopped")
}

// Start launches the job queue and recovers scheduled actions. It returns
// once every overdue action has fired and every future one is enqueued, so
// callers run it before gateway events start flowing.
func (m *Module) Start(ctx context.Context) error {
	return startRecovery(ctx, m.QueueService, m.ModerationService, m.observability.Provider.Logger)
}

type queueStarter interface {
	Start(ctx context.Context) error
}

type recoverer interface {
	Recover(ctx context.Context) (moderationservice.RecoverReport, error)
}

func startRecovery(ctx context.Context, queue queueStarter, svc recoverer, logger *slog.Logger) error {
	// Stop in Close drains running jobs; the caller's context must not hard-stop them.
	if err := queue.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to start moderation queue: %w", err)
	}
	if _, err := svc.Recover(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to recover scheduled actions", attr.Error(err))
	}
	return nil
}

// Close stops the queue.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping moderation module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Stop(context.Background()); err != nil {
			logger.Error("Failed to stop moderation queue", attr.Error(err))
			return err
		}
	}

	logger.Info("Moderation module stopped")
	return nil
}
