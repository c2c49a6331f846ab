package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "senshi").(*prometheusMetrics)
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "RecordActivity", "LevelingService")
	m.RecordOperationAttempt(ctx, "RecordActivity", "LevelingService")
	m.RecordOperationSuccess(ctx, "RecordActivity", "LevelingService")
	m.RecordOperationFailure(ctx, "RecordActivity", "LevelingService")
	m.RecordOperationDuration(ctx, "RecordActivity", "LevelingService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("RecordActivity", "LevelingService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("RecordActivity", "LevelingService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("RecordActivity", "LevelingService")))

	count, err := testutil.GatherAndCount(reg, "senshi_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
