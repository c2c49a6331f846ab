package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	authservice "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/go-chi/chi/v5"
)

// Module represents the dashboard auth module.
type Module struct {
	service       authservice.Service
	observability observability.Observability
}

// NewAuthModule creates the auth module and registers /api/auth on httpRouter.
func NewAuthModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
	guilds authservice.GuildDirectory,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "auth.NewAuthModule initializing")

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required for dashboard auth")
	}

	service := authservice.NewAuthService(authservice.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		TokenTTL:     cfg.JWT.DefaultTTL,
	}, authjwt.NewProvider(cfg.JWT.Secret), guilds, logger, obs.Registry.Operations, tracer)

	// Use secure cookies unless in development or serving plain http
	secureCookies := cfg.Observability.Environment != "development"
	if strings.HasPrefix(cfg.OAuth.RedirectURL, "http://") {
		secureCookies = false
	}

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer, secureCookies, cfg.OAuth.DashboardURL)

	if httpRouter != nil {
		limiter := authhandlers.NewClientLimiter(cfg.HTTP.AuthRateLimit.PerSecond, cfg.HTTP.AuthRateLimit.Burst)
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(limiter.Middleware)

			r.Get("/login", handlers.HandleLogin)
			r.Get("/callback", handlers.HandleCallback)
			r.Post("/logout", handlers.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(service))
				r.Get("/me", handlers.HandleMe)
			})
		})
		logger.InfoContext(ctx, "Auth HTTP routes registered")
	}

	return &Module{service: service, observability: obs}, nil
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}

// RequireAuth is the token middleware for other modules' routes.
func (m *Module) RequireAuth() func(http.Handler) http.Handler {
	return authhandlers.RequireAuth(m.service)
}
