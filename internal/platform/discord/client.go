// Package discord adapts discordgo to the platform interfaces and bridges
// gateway events onto the event bus.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

// EventPublisher publishes gateway events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, payload any) error
}

// Config holds the session settings.
type Config struct {
	Token string
	AppID string
	// RequestsPerSecond throttles REST calls below Discord's global limit.
	RequestsPerSecond float64
	Burst             int
	// GuildID registers commands on one guild instead of globally. Guild
	// commands update instantly, which suits development.
	GuildID          string
	RegisterCommands bool
}

// Client owns the gateway session.
type Client struct {
	session   *discordgo.Session
	cfg       Config
	limiter   *rate.Limiter
	publisher EventPublisher
	awaiter   *Awaiter
	logger    *slog.Logger
	tracer    trace.Tracer

	mu sync.Mutex
	// replay holds guilds announced by Ready whose GuildCreate is a replay,
	// not an invite.
	replay map[string]struct{}
}

var (
	_ platform.Membership   = (*Client)(nil)
	_ platform.Notifier     = (*Client)(nil)
	_ platform.ReplyAwaiter = (*Client)(nil)
)

// New creates a client. Call Open to connect.
func New(cfg Config, publisher EventPublisher, logger *slog.Logger, tracer trace.Tracer) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is required")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = intents
	session.StateEnabled = true

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 40
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		session:   session,
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		publisher: publisher,
		awaiter:   NewAwaiter(),
		logger:    logger.With(attr.String("component", "discord")),
		tracer:    tracer,
		replay:    make(map[string]struct{}),
	}, nil
}

// Open registers the gateway handlers and connects.
func (c *Client) Open() error {
	c.session.AddHandler(c.onReady)
	c.session.AddHandler(c.onMessageCreate)
	c.session.AddHandler(c.onReactionAdd)
	c.session.AddHandler(c.onReactionRemove)
	c.session.AddHandler(c.onMemberAdd)
	c.session.AddHandler(c.onMemberRemove)
	c.session.AddHandler(c.onGuildCreate)
	c.session.AddHandler(c.onGuildDelete)
	c.session.AddHandler(c.onInteraction)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	c.logger.Info("Discord session opened")
	return nil
}

// Close disconnects the gateway.
func (c *Client) Close() error {
	c.logger.Info("Closing Discord session")
	return c.session.Close()
}

// throttle waits for a REST slot.
func (c *Client) throttle(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("discord rate limiter: %w", err)
	}
	return nil
}

func (c *Client) appID() string {
	if c.cfg.AppID != "" {
		return c.cfg.AppID
	}
	if c.session.State != nil && c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

// mapError turns REST failures into the apperrors taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrHierarchyViolation, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
