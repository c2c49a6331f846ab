package moderationqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// ActionRunner carries out a scheduled action. Returning an error makes
// River retry the job.
type ActionRunner interface {
	FireAction(ctx context.Context, actionID uuid.UUID) error
}

// ScheduledActionWorker runs ScheduledActionJob.
type ScheduledActionWorker struct {
	river.WorkerDefaults[ScheduledActionJob]
	runner ActionRunner
	logger *slog.Logger
}

func NewScheduledActionWorker(logger *slog.Logger, runner ActionRunner) *ScheduledActionWorker {
	return &ScheduledActionWorker{runner: runner, logger: logger}
}

func (w *ScheduledActionWorker) Work(ctx context.Context, job *river.Job[ScheduledActionJob]) error {
	id, err := uuid.Parse(job.Args.ActionID)
	if err != nil {
		// A malformed id can never succeed.
		w.logger.ErrorContext(ctx, "Discarding job with invalid action id",
			attr.String("action_id", job.Args.ActionID),
			attr.Int64("job_id", job.ID),
		)
		return river.JobCancel(fmt.Errorf("invalid action id %q: %w", job.Args.ActionID, err))
	}

	w.logger.InfoContext(ctx, "Firing scheduled action",
		attr.String("action_id", id.String()),
		attr.Int("attempt", job.Attempt),
	)
	return w.runner.FireAction(ctx, id)
}
