// Package app assembles the bot process from its modules.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/app/modules/auth"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/guild"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/leaderboard"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/leveling"
	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/milestone"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/moderation"
	"github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole"
	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/db/bundb"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

const (
	routerCloseTimeout = 30 * time.Second
	shutdownTimeout    = 15 * time.Second
)

// module is the lifecycle every bus-driven module exposes.
type module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

// App holds the process-wide resources and the modules built on them.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Discord       *discord.Client
	HTTPRouter    chi.Router

	GuildModule        *guild.Module
	LevelingModule     *leveling.Module
	MilestoneModule    *milestone.Module
	ReactionRoleModule *reactionrole.Module
	ModerationModule   *moderation.Module
	AuthModule         *auth.Module
	LeaderboardModule  *leaderboard.Module

	httpServer   *http.Server
	metricServer *http.Server
	wg           sync.WaitGroup
}

// New builds every dependency. Nothing connects to Discord or serves HTTP until Run.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obs := observability.Init(observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
		LogFormat:   cfg.Observability.LogFormat,
	})
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "Initializing senshi-bot",
		attr.String("environment", cfg.Observability.Environment),
		attr.String("version", cfg.Observability.Version),
	)

	a := &App{Config: cfg, Observability: obs}
	if err := a.init(ctx); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config
	logger := a.Observability.Provider.Logger

	db, err := bundb.Open(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	if err := bundb.MigrateAll(ctx, db, logger); err != nil {
		return err
	}

	bus, err := newEventBus(ctx, cfg.NATS, logger)
	if err != nil {
		return err
	}
	a.EventBus = bus

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(logger),
		}.Middleware,
		middleware.Recoverer,
	)
	a.Router = router

	helpers := utils.NewHelper()
	client, err := discord.New(discord.Config{
		Token:             cfg.Discord.Token,
		AppID:             cfg.Discord.AppID,
		GuildID:           cfg.Discord.GuildID,
		RegisterCommands:  cfg.Discord.RegisterCommands,
		RequestsPerSecond: cfg.Discord.RequestsPerSecond,
		Burst:             cfg.Discord.Burst,
	}, utils.NewEventPublisher(bus, helpers), logger, a.Observability.Registry.Tracer)
	if err != nil {
		return err
	}
	a.Discord = client

	if err := registerReplyRelay(router, bus, client, helpers, a.Observability); err != nil {
		return err
	}

	a.HTTPRouter = newHTTPRouter()
	return a.initModules(ctx, helpers)
}

func (a *App) initModules(ctx context.Context, helpers utils.Helpers) error {
	cfg := a.Config
	obs := a.Observability
	var err error

	// Router handlers must be registered before the router starts.
	routerCtx := ctx

	a.GuildModule, err = guild.NewGuildModule(ctx, obs, a.EventBus, a.Router, helpers, routerCtx, a.DB, a.Discord)
	if err != nil {
		return fmt.Errorf("failed to initialize guild module: %w", err)
	}

	a.LevelingModule, err = leveling.NewLevelingModule(ctx, obs, a.EventBus, a.Router, helpers, routerCtx, a.DB, a.Discord, levelingservice.Config{
		Cooldown: cfg.Leveling.Cooldown,
		MinAward: cfg.Leveling.MinAward,
		MaxAward: cfg.Leveling.MaxAward,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize leveling module: %w", err)
	}

	a.MilestoneModule, err = milestone.NewMilestoneModule(ctx, obs, a.EventBus, a.Router, helpers, routerCtx, a.DB, a.Discord, a.Discord, a.GuildModule.GuildService)
	if err != nil {
		return fmt.Errorf("failed to initialize milestone module: %w", err)
	}

	// Rebuilds the reaction-role cache before any reaction is routed.
	a.ReactionRoleModule, err = reactionrole.NewReactionRoleModule(ctx, obs, a.EventBus, a.Router, helpers, routerCtx, a.DB, a.Discord, a.Discord, a.Discord, cfg.ReactionRoles.ReplyTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize reaction role module: %w", err)
	}

	a.ModerationModule, err = moderation.NewModerationModule(ctx, obs, a.EventBus, a.Router, helpers, routerCtx, a.DB, cfg.Postgres.DSN, a.Discord, a.Discord, a.GuildModule.GuildService)
	if err != nil {
		return fmt.Errorf("failed to initialize moderation module: %w", err)
	}

	a.AuthModule, err = auth.NewAuthModule(ctx, cfg, obs, a.HTTPRouter, a.Discord)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}

	a.LeaderboardModule, err = leaderboard.NewLeaderboardModule(ctx, obs, a.HTTPRouter, cfg.HTTP,
		a.LevelingModule.LevelingService, a.MilestoneModule.MilestoneService, a.AuthModule.RequireAuth())
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	mountOps(a.HTTPRouter, a.Observability, a.healthChecks())
	return nil
}

func (a *App) modules() []module {
	var out []module
	if a.GuildModule != nil {
		out = append(out, a.GuildModule)
	}
	if a.LevelingModule != nil {
		out = append(out, a.LevelingModule)
	}
	if a.MilestoneModule != nil {
		out = append(out, a.MilestoneModule)
	}
	if a.ReactionRoleModule != nil {
		out = append(out, a.ReactionRoleModule)
	}
	if a.ModerationModule != nil {
		out = append(out, a.ModerationModule)
	}
	return out
}

// Run connects to Discord, starts the modules, the Watermill router and the
// HTTP server, and blocks until ctx is cancelled. It then shuts down.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Provider.Logger

	for _, m := range a.modules() {
		a.wg.Add(1)
		go m.Run(ctx, &a.wg)
	}

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- a.Router.Run(ctx)
	}()
	select {
	case <-a.Router.Running():
	case err := <-routerErr:
		return fmt.Errorf("watermill router stopped during startup: %w", err)
	}

	// Overdue mutes fire with the router consuming their events and before the gateway opens.
	if a.ModerationModule != nil {
		if err := a.ModerationModule.Start(ctx); err != nil {
			return err
		}
	}

	if err := a.Discord.Open(); err != nil {
		return err
	}

	httpErr := make(chan error, 2)
	a.httpServer = &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go serve(a.httpServer, httpErr)
	logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", a.Config.HTTP.Addr))

	if addr := a.Config.Observability.MetricsAddress; addr != "" && addr != a.Config.HTTP.Addr {
		a.metricServer = &http.Server{
			Addr:              addr,
			Handler:           metricsOnly(a.Observability),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go serve(a.metricServer, httpErr)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-routerErr:
		runErr = fmt.Errorf("watermill router stopped: %w", err)
	case err := <-httpErr:
		runErr = fmt.Errorf("http server stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return errors.Join(runErr, a.Close(shutdownCtx))
}

func serve(srv *http.Server, errs chan<- error) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs <- err
	}
}

// Close stops everything in reverse dependency order: HTTP, modules, the
// router, the bus, the Discord session and finally the database.
func (a *App) Close(ctx context.Context) error {
	logger := a.Observability.Provider.Logger
	var errs []error

	for _, srv := range []*http.Server{a.httpServer, a.metricServer} {
		if srv != nil {
			if err := srv.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("http shutdown: %w", err))
			}
		}
	}

	for _, m := range a.modules() {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	waitCh := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-ctx.Done():
		logger.Warn("Timed out waiting for modules to stop")
	}

	errs = append(errs, a.closeResources())
	err := errors.Join(errs...)
	if err != nil {
		logger.Error("Shutdown finished with errors", attr.Error(err))
	} else {
		logger.Info("Shutdown complete")
	}
	return err
}

func (a *App) closeResources() error {
	var errs []error
	if a.Router != nil {
		if err := a.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("router close: %w", err))
		}
	}
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
	}
	if a.Discord != nil {
		if err := a.Discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("discord close: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errors.Join(errs...)
}
