package levelingservice

import (
	"log/slog"
	"math/rand/v2"
	"time"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Config tunes the XP engine. Zero values fall back to the defaults.
type Config struct {
	Cooldown time.Duration
	MinAward int
	MaxAward int
}

// AwardFunc returns the XP granted for one qualifying message.
type AwardFunc func() int

type recordKey struct {
	guild sharedtypes.GuildID
	user  sharedtypes.DiscordID
}

// LevelingService implements the Service interface.
type LevelingService struct {
	repo       levelingdb.Repository
	membership platform.Membership
	logger     *slog.Logger
	metrics    metrics.OperationMetrics
	tracer     trace.Tracer
	db         *bun.DB

	cooldown *levelingdomain.Cooldown
	locks    *levelingdomain.KeyedMutex[recordKey]
	award    AwardFunc
}

// NewLevelingService creates a new LevelingService.
func NewLevelingService(
	repo levelingdb.Repository,
	membership platform.Membership,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	cfg Config,
) *LevelingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LevelingService{
		repo:       repo,
		membership: membership,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		cooldown:   levelingdomain.NewCooldown(cfg.Cooldown, nil),
		locks:      levelingdomain.NewKeyedMutex[recordKey](),
		award:      randomAward(cfg.MinAward, cfg.MaxAward),
	}
}

// WithClock replaces the cooldown clock.
func (s *LevelingService) WithClock(clock func() time.Time, window time.Duration) *LevelingService {
	s.cooldown = levelingdomain.NewCooldown(window, clock)
	return s
}

// WithAward replaces the XP roll.
func (s *LevelingService) WithAward(award AwardFunc) *LevelingService {
	s.award = award
	return s
}

// SweepCooldowns drops expired cooldown entries.
func (s *LevelingService) SweepCooldowns() int {
	return s.cooldown.Sweep()
}

func randomAward(lo, hi int) AwardFunc {
	if lo <= 0 {
		lo = levelingdomain.MinAward
	}
	if hi < lo {
		hi = max(lo, levelingdomain.MaxAward)
	}
	return func() int {
		return lo + rand.IntN(hi-lo+1)
	}
}

func (s *LevelingService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "LevelingService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}
