package reactionroleservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	reactionroledomain "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/domain"
	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// DefaultReplyTimeout is how long each setup step waits for the admin.
const DefaultReplyTimeout = 60 * time.Second

// ErrClosed is returned by StartConfigure after Close.
var ErrClosed = errors.New("reaction role service closed")

// ReactionRoleService implements the Service interface.
type ReactionRoleService struct {
	repo       reactionroledb.Repository
	cache      *reactionroledomain.Cache
	membership platform.Membership
	notifier   platform.Notifier
	awaiter    platform.ReplyAwaiter
	publisher  EventPublisher
	logger     *slog.Logger
	metrics    metrics.OperationMetrics
	tracer     trace.Tracer
	db         *bun.DB
	timeout    time.Duration

	// flows tracks background setups.
	mu     sync.Mutex
	flows  sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewReactionRoleService creates a new ReactionRoleService with an empty cache.
func NewReactionRoleService(
	repo reactionroledb.Repository,
	membership platform.Membership,
	notifier platform.Notifier,
	awaiter platform.ReplyAwaiter,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	timeout time.Duration,
) *ReactionRoleService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ReactionRoleService{
		repo:       repo,
		cache:      reactionroledomain.NewCache(),
		membership: membership,
		notifier:   notifier,
		awaiter:    awaiter,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		timeout:    timeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *ReactionRoleService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "ReactionRoleService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// Rebuild reloads every guild from storage.
func (s *ReactionRoleService) Rebuild(ctx context.Context) (int, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "Rebuild", "all", func(ctx context.Context) (results.OperationResult[int, error], error) {
		rows, err := s.repo.ListAll(ctx, nil)
		if err != nil {
			return results.OperationResult[int, error]{}, err
		}
		all := make(map[sharedtypes.GuildID][]reactionroledomain.MessageConfig)
		for _, r := range rows {
			all[r.GuildID] = appendRow(all[r.GuildID], r)
		}
		s.cache.Rebuild(all)
		return results.SuccessResult[int, error](s.cache.Len()), nil
	}))
}

// RefreshGuild reloads one guild from storage.
func (s *ReactionRoleService) RefreshGuild(ctx context.Context, guildID sharedtypes.GuildID) (int, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "RefreshGuild", string(guildID), func(ctx context.Context) (results.OperationResult[int, error], error) {
		rows, err := s.repo.ListGuild(ctx, nil, guildID)
		if err != nil {
			return results.OperationResult[int, error]{}, err
		}
		var msgs []reactionroledomain.MessageConfig
		for _, r := range rows {
			msgs = appendRow(msgs, r)
		}
		s.cache.ReplaceGuild(guildID, msgs)
		return results.SuccessResult[int, error](len(msgs)), nil
	}))
}

// Messages returns the cached messages of a guild.
func (s *ReactionRoleService) Messages(guildID sharedtypes.GuildID) []reactionroledomain.MessageConfig {
	return s.cache.Snapshot(guildID)
}

// PurgeGuild deletes the guild's bindings and evicts it from the cache.
func (s *ReactionRoleService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	defer s.cache.EvictGuild(guildID)
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "PurgeGuild", string(guildID), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		n, err := s.repo.DeleteGuild(ctx, nil, guildID)
		if err != nil {
			return results.OperationResult[int64, error]{}, err
		}
		return results.SuccessResult[int64, error](n), nil
	}))
}

// Close cancels running setups and waits for them to finish.
func (s *ReactionRoleService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.flows.Wait()
}

// appendRow folds a row into the message it belongs to. Rows must arrive
// grouped by message.
func appendRow(msgs []reactionroledomain.MessageConfig, r reactionroledb.ReactionRole) []reactionroledomain.MessageConfig {
	pair := reactionroledomain.Pair{Emoji: r.Emoji, RoleID: r.RoleID}
	if n := len(msgs); n > 0 && msgs[n-1].MessageID == r.MessageID {
		msgs[n-1].Pairs = append(msgs[n-1].Pairs, pair)
		return msgs
	}
	return append(msgs, reactionroledomain.MessageConfig{
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		Pairs:     []reactionroledomain.Pair{pair},
	})
}
