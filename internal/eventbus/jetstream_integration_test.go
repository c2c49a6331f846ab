//go:build integration

package eventbus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/integration_tests/containers"
	"github.com/Black-And-White-Club/senshi-bot/internal/eventbus"
	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJetStreamEventBusDelivers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	bus, err := eventbus.NewJetStreamEventBus(ctx, eventbus.JetStreamConfig{
		URL:          containers.NatsURL(t),
		ConsumerName: "senshi-it",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer bus.Close()

	sub, err := bus.Subscriber("leveling-it")
	require.NoError(t, err)
	ch, err := sub.Subscribe(ctx, "leveling.level.up.v1")
	require.NoError(t, err)

	msg, err := utils.NewHelper().CreateNewMessage(map[string]int{"level": 7}, "leveling.level.up.v1")
	require.NoError(t, err)
	require.NoError(t, bus.Publish("leveling.level.up.v1", msg))

	select {
	case got := <-ch:
		got.Ack()
		assert.Equal(t, msg.UUID, got.UUID)
		assert.JSONEq(t, `{"level":7}`, string(got.Payload))
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}
