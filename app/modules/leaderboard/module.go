package leaderboard

import (
	"context"

	authhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/infrastructure/handlers"
	leaderboardservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/go-chi/chi/v5"
)

// Module represents the dashboard leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	observability      observability.Observability
}

// NewLeaderboardModule creates the module and mounts its routes on httpRouter.
// requireAuth guards every guild-scoped route.
func NewLeaderboardModule(
	ctx context.Context,
	obs observability.Observability,
	httpRouter chi.Router,
	httpCfg config.HTTPConfig,
	progress leaderboardservice.ProgressSource,
	milestones leaderboardhandlers.MilestoneImporter,
	requireAuth leaderboardhandlers.Middleware,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	service := leaderboardservice.NewLeaderboardService(progress, logger, obs.Registry.Operations, tracer)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, milestones, logger, tracer)

	if httpRouter != nil {
		httpRouter.Group(func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(httpCfg.AllowedOrigins))
			r.Use(authhandlers.NewClientLimiter(httpCfg.APIRateLimit.PerSecond, httpCfg.APIRateLimit.Burst).Middleware)
			leaderboardhandlers.Register(r, handlers, requireAuth, func(manage bool) leaderboardhandlers.Middleware {
				return authhandlers.RequireGuild(manage)
			})
		})
		logger.InfoContext(ctx, "Leaderboard HTTP routes registered")
	}

	return &Module{
		LeaderboardService: service,
		observability:      obs,
	}, nil
}
