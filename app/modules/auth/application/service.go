package authservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	discordAPIBase = "https://discord.com/api/v10"
	defaultTTL     = 24 * time.Hour
)

// ErrUnauthorized is returned for rejected codes and tokens.
var ErrUnauthorized = errors.New("unauthorized")

// DiscordEndpoint is Discord's OAuth2 endpoint.
var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Config configures the login flow.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenTTL     time.Duration
	// APIBase overrides the Discord REST base URL.
	APIBase string
	// Endpoint overrides DiscordEndpoint.
	Endpoint *oauth2.Endpoint
}

type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

type discordGuild struct {
	ID          string `json:"id"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// AuthService implements the Service interface.
type AuthService struct {
	oauth   *oauth2.Config
	apiBase string
	ttl     time.Duration
	jwt     authjwt.Provider
	guilds  GuildDirectory
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg Config, provider authjwt.Provider, guilds GuildDirectory, logger *slog.Logger, metrics metrics.OperationMetrics, tracer trace.Tracer) *AuthService {
	endpoint := DiscordEndpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	if cfg.APIBase == "" {
		cfg.APIBase = discordAPIBase
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTTL
	}
	return &AuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"identify", "guilds"},
		},
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		ttl:     cfg.TokenTTL,
		jwt:     provider,
		guilds:  guilds,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

func (s *AuthService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "AuthService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// LoginURL returns the Discord consent URL carrying state.
func (s *AuthService) LoginURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

// CompleteLogin exchanges code, reads the user's identity and guilds and signs a token.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (*Session, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "CompleteLogin", "", func(ctx context.Context) (results.OperationResult[*Session, error], error) {
		if code == "" {
			return results.FailureResult[*Session, error](apperrors.Invalid("missing authorization code")), nil
		}
		tok, err := s.oauth.Exchange(ctx, code)
		if err != nil {
			return results.FailureResult[*Session, error](fmt.Errorf("%w: code exchange failed: %v", ErrUnauthorized, err)), nil
		}
		client := s.oauth.Client(ctx, tok)

		var user discordUser
		if err := s.get(ctx, client, "/users/@me", &user); err != nil {
			return results.OperationResult[*Session, error]{}, err
		}
		var guilds []discordGuild
		if err := s.get(ctx, client, "/users/@me/guilds", &guilds); err != nil {
			return results.OperationResult[*Session, error]{}, err
		}

		claims := &authdomain.Claims{
			UserID:   sharedtypes.DiscordID(user.ID),
			Username: user.GlobalName,
			Guilds:   s.access(guilds),
		}
		if claims.Username == "" {
			claims.Username = user.Username
		}

		signed, err := s.jwt.GenerateToken(claims, s.ttl)
		if err != nil {
			return results.OperationResult[*Session, error]{}, err
		}
		validated, err := s.jwt.ValidateToken(signed)
		if err != nil {
			return results.OperationResult[*Session, error]{}, fmt.Errorf("failed to read back token: %w", err)
		}
		return results.SuccessResult[*Session, error](&Session{Token: signed, Claims: validated}), nil
	}))
}

// Authenticate verifies token.
func (s *AuthService) Authenticate(_ context.Context, token string) (*authdomain.Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// access keeps the guilds the bot shares with the user, which keeps the cookie small.
func (s *AuthService) access(guilds []discordGuild) []authdomain.GuildAccess {
	out := make([]authdomain.GuildAccess, 0, len(guilds))
	for _, g := range guilds {
		id := sharedtypes.GuildID(g.ID)
		if s.guilds != nil && !s.guilds.HasGuild(id) {
			continue
		}
		out = append(out, authdomain.GuildAccess{GuildID: id, Admin: g.Owner || isAdmin(g.Permissions)})
	}
	return out
}

func isAdmin(permissions string) bool {
	p, err := strconv.ParseInt(permissions, 10, 64)
	if err != nil {
		return false
	}
	return p&(discordevents.PermissionAdministrator|discordevents.PermissionManageGuild) != 0
}

func (s *AuthService) get(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call discord %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode discord %s: %w", path, err)
	}
	return nil
}
