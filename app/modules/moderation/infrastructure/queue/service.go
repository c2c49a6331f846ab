package moderationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

const (
	queueName   = "moderation"
	serviceName = "river"
)

// Service schedules durable actions on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics metrics.OperationMetrics
}

// NewService creates a River client on its own pgx pool. River needs pgx, not
// database/sql, so it cannot share bun's connection.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, m metrics.OperationMetrics, runner ActionRunner) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	pool, err := openPool(ctx, dsn)
	if err != nil {
		ctxLogger.Error("Failed to open pgx pool for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewScheduledActionWorker(ctxLogger, runner))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	m.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("Moderation queue service initialized")

	return &Service{
		client:  client,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: m,
	}, nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates or upgrades River's own tables.
func Migrate(ctx context.Context, dsn string) error {
	pool, err := openPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// Start starts working jobs.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting moderation queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping moderation queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// Schedule inserts a job for actionID at fireAt. A past fireAt runs as soon
// as a worker is free.
func (s *Service) Schedule(ctx context.Context, actionID uuid.UUID, fireAt time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_action", serviceName)

	res, err := s.client.Insert(ctx, ScheduledActionJob{ActionID: actionID.String()}, &river.InsertOpts{
		Queue:       queueName,
		ScheduledAt: fireAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule action", attr.String("action_id", actionID.String()), attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_action", serviceName)
		return fmt.Errorf("failed to schedule action: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_action", serviceName)
	s.metrics.RecordOperationDuration(ctx, "schedule_action", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Action scheduled",
		attr.String("action_id", actionID.String()),
		attr.Time("fire_at", fireAt),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

type riverJobRow struct {
	ID          int64          `bun:"id"`
	State       string         `bun:"state"`
	Args        map[string]any `bun:"args"`
	ScheduledAt *time.Time     `bun:"scheduled_at"`
	Attempt     int16          `bun:"attempt"`
	MaxAttempts int16          `bun:"max_attempts"`
}

func (s *Service) jobsFor(ctx context.Context, actionIDs []string, states ...string) ([]riverJobRow, error) {
	var jobs []riverJobRow
	q := s.db.NewSelect().
		Table("river_job").
		Column("id", "state", "args", "scheduled_at", "attempt", "max_attempts").
		Where("kind = ?", ScheduledActionJob{}.Kind()).
		Where("args->>'action_id' IN (?)", bun.In(actionIDs))
	if len(states) > 0 {
		q = q.Where("state IN (?)", bun.In(states))
	}
	if err := q.OrderExpr("scheduled_at ASC NULLS LAST").Scan(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to query river jobs: %w", err)
	}
	return jobs, nil
}

// Cancel removes queued jobs for the given actions. The worker also skips
// actions that are no longer pending, so a missed cancel is harmless.
func (s *Service) Cancel(ctx context.Context, actionIDs []uuid.UUID) error {
	if len(actionIDs) == 0 {
		return nil
	}
	ids := make([]string, len(actionIDs))
	for i, id := range actionIDs {
		ids[i] = id.String()
	}

	jobs, err := s.jobsFor(ctx, ids, "available", "scheduled", "retryable")
	if err != nil {
		return err
	}
	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to cancel job", attr.Int64("job_id", job.ID), attr.Error(err))
			continue
		}
		cancelled++
	}
	s.logger.InfoContext(ctx, "Cancelled scheduled action jobs",
		attr.Int("found", len(jobs)),
		attr.Int("cancelled", cancelled),
	)
	return nil
}

// HealthCheck verifies the queue table is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Where("kind = ?", ScheduledActionJob{}.Kind()).
		Scan(ctx, &count)
	if err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	s.logger.DebugContext(ctx, "Queue service health check passed", attr.Int("jobs", count))
	return nil
}
