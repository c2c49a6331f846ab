package leaderboardservice

import (
	"context"
	"log/slog"
	"strconv"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultCurveLevels = 50
	MaxCurveLevels     = 100
)

type entriesResult = results.OperationResult[[]Entry, error]
type bytesResult = results.OperationResult[[]byte, error]

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	progress ProgressSource
	palette  ChartPalette
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(progress ProgressSource, logger *slog.Logger, metrics metrics.OperationMetrics, tracer trace.Tracer) *LeaderboardService {
	return &LeaderboardService{
		progress: progress,
		palette:  DefaultPalette,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

func (s *LeaderboardService) instrumentation() operations.Instrumentation {
	return operations.Instrumentation{
		Service: "LeaderboardService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// Standings ranks the top members by level, then XP.
func (s *LeaderboardService) Standings(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]Entry, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "Standings", string(guildID), func(ctx context.Context) (entriesResult, error) {
		entries, err := s.standings(ctx, guildID, limit)
		if err != nil {
			return entriesResult{}, err
		}
		return results.SuccessResult[[]Entry, error](entries), nil
	}))
}

func (s *LeaderboardService) standings(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]Entry, error) {
	rows, err := s.progress.Leaderboard(ctx, guildID, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, Entry{
			Rank:          i + 1,
			UserID:        r.UserID,
			Username:      r.Username,
			Level:         r.Level,
			XP:            r.XP,
			NextLevelXP:   levelingdomain.Gap(r.Level),
			TotalXP:       levelingdomain.ThresholdXP(r.Level) + r.XP,
			TotalMessages: r.TotalMessages,
		})
	}
	return entries, nil
}

// ExportWorkbook renders the standings into an xlsx workbook.
func (s *LeaderboardService) ExportWorkbook(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "ExportWorkbook", string(guildID), func(ctx context.Context) (bytesResult, error) {
		entries, err := s.standings(ctx, guildID, limit)
		if err != nil {
			return bytesResult{}, err
		}
		data, err := buildWorkbook(entries)
		if err != nil {
			return bytesResult{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	}))
}

// StandingsChart renders the standings as a bar chart of total XP.
func (s *LeaderboardService) StandingsChart(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error) {
	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "StandingsChart", string(guildID), func(ctx context.Context) (bytesResult, error) {
		entries, err := s.standings(ctx, guildID, limit)
		if err != nil {
			return bytesResult{}, err
		}
		png, err := renderStandingsChart(entries, s.palette)
		if err != nil {
			return bytesResult{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}

// LevelCurveChart plots ThresholdXP for levels 0..maxLevel, clamped to MaxCurveLevels.
func (s *LeaderboardService) LevelCurveChart(ctx context.Context, maxLevel int) ([]byte, error) {
	if maxLevel <= 0 {
		maxLevel = DefaultCurveLevels
	}
	maxLevel = min(maxLevel, MaxCurveLevels)

	return operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "LevelCurveChart", strconv.Itoa(maxLevel), func(ctx context.Context) (bytesResult, error) {
		png, err := renderLevelCurve(maxLevel, s.palette)
		if err != nil {
			return bytesResult{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}
