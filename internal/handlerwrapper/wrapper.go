package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped adapts a typed handler to a Watermill HandlerFunc.
//
// The incoming payload is decoded as JSON into T. Every Result is turned into a
// message that keeps the correlation id of the incoming one and carries its
// destination in the "topic" metadata key. Undecodable payloads are logged and
// acked so they do not block the subscription.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	helper utils.Helpers,
	m metrics.OperationMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(handlerName)
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("message.topic", msg.Metadata.Get(utils.TopicKey)),
		))
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			m.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler returned error",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			outMsg, err := helper.CreateResultMessage(msg, r.Payload, r.Topic)
			if err != nil {
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return nil, fmt.Errorf("failed to create result message for %s: %w", r.Topic, err)
			}
			for k, v := range r.Metadata {
				outMsg.Metadata.Set(k, v)
			}
			out = append(out, outMsg)
		}

		m.RecordOperationSuccess(ctx, handlerName, "handler")
		return out, nil
	}
}
