package guildrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingHandlers struct {
	mu     sync.Mutex
	joined []discordevents.GuildPayloadV1
}

func (h *recordingHandlers) HandleGuildJoined(_ context.Context, p *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error) {
	h.mu.Lock()
	h.joined = append(h.joined, *p)
	h.mu.Unlock()
	return []handlerwrapper.Result{{
		Topic:   guildevents.AuditRequestedV1,
		Payload: guildevents.AuditRequestedPayloadV1{GuildID: p.GuildID},
	}}, nil
}

func (h *recordingHandlers) HandleGuildLeft(context.Context, *discordevents.GuildPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleMemberJoined(context.Context, *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleMemberLeft(context.Context, *discordevents.MemberPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleSetupChannel(context.Context, *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleSetupMuteRole(context.Context, *discordevents.CommandPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleAuditRequested(context.Context, *guildevents.AuditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func TestGuildRouterDispatchesAndPublishesResults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewMemoryEventBus(logger)
	defer bus.Close()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: time.Second}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	audits, err := bus.Subscribe(ctx, guildevents.AuditRequestedV1)
	require.NoError(t, err)

	handlers := &recordingHandlers{}
	gr := NewGuildRouter(logger, router, bus, bus, utils.NewHelper(), noop.NewTracerProvider().Tracer("test"), metrics.NewNoop())
	require.NoError(t, gr.Configure(ctx, handlers))

	go func() { _ = router.Run(ctx) }()
	defer router.Close()
	select {
	case <-router.Running():
	case <-ctx.Done():
		t.Fatal("router did not start")
	}

	msg, err := utils.NewHelper().CreateNewMessage(discordevents.GuildPayloadV1{GuildID: "42", GuildName: "Senshi", Invited: true}, discordevents.GuildJoinedV1)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(discordevents.GuildJoinedV1, msg))

	select {
	case out := <-audits:
		out.Ack()
		var audit guildevents.AuditRequestedPayloadV1
		require.NoError(t, json.Unmarshal(out.Payload, &audit))
		assert.Equal(t, "42", string(audit.GuildID))
		assert.Equal(t, middleware.MessageCorrelationID(msg), middleware.MessageCorrelationID(out))
	case <-ctx.Done():
		t.Fatal("no result published")
	}

	handlers.mu.Lock()
	defer handlers.mu.Unlock()
	require.Len(t, handlers.joined, 1)
	assert.True(t, handlers.joined[0].Invited)
}
