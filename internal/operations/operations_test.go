package operations

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func testInstrumentation() Instrumentation {
	return Instrumentation{
		Service: "TestService",
		Logger:  slog.Default(),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
	}
}

func TestWithTelemetry(t *testing.T) {
	tests := []struct {
		name        string
		op          Func[int, error]
		wantValue   int
		wantErr     bool
		wantErrType error
	}{
		{
			name: "success",
			op: func(context.Context) (results.OperationResult[int, error], error) {
				return results.SuccessResult[int, error](7), nil
			},
			wantValue: 7,
		},
		{
			name: "domain failure",
			op: func(context.Context) (results.OperationResult[int, error], error) {
				return results.FailureResult[int, error](apperrors.ErrDuplicate), nil
			},
			wantErr:     true,
			wantErrType: apperrors.ErrDuplicate,
		},
		{
			name: "infrastructure error is wrapped",
			op: func(context.Context) (results.OperationResult[int, error], error) {
				return results.OperationResult[int, error]{}, apperrors.ErrPersistence
			},
			wantErr:     true,
			wantErrType: apperrors.ErrPersistence,
		},
		{
			name: "panic is recovered",
			op: func(context.Context) (results.OperationResult[int, error], error) {
				panic("boom")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap(WithTelemetry(context.Background(), testInstrumentation(), "Op", "id", tt.op))
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestWithTelemetryWrapsOperationName(t *testing.T) {
	_, err := WithTelemetry(context.Background(), Instrumentation{}, "GetThing", "id",
		func(context.Context) (results.OperationResult[int, error], error) {
			return results.OperationResult[int, error]{}, errors.New("db down")
		})
	require.Error(t, err)
	assert.Equal(t, "GetThing: db down", err.Error())
}

func TestRunInTxWithoutDB(t *testing.T) {
	var gotNil bool
	res, err := RunInTx(context.Background(), nil, func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		gotNil = db == nil
		return results.SuccessResult[int, error](1), nil
	})
	require.NoError(t, err)
	assert.True(t, gotNil)
	assert.True(t, res.IsSuccess())
}
