package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBusRoutesByMetadata(t *testing.T) {
	bus := NewMemoryEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	levelUps, err := bus.Subscribe(ctx, "leveling.level.up.v1")
	require.NoError(t, err)
	gapFills, err := bus.Subscribe(ctx, "milestone.gapfill.requested.v1")
	require.NoError(t, err)

	h := utils.NewHelper()
	m1, err := h.CreateNewMessage(map[string]int{"level": 5}, "leveling.level.up.v1")
	require.NoError(t, err)
	m2, err := h.CreateNewMessage(map[string]int{"level": 5}, "milestone.gapfill.requested.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("", m1, m2))

	for _, ch := range []<-chan *message.Message{levelUps, gapFills} {
		select {
		case got := <-ch:
			got.Ack()
		case <-ctx.Done():
			t.Fatal("message was not routed")
		}
	}
}

func TestPublishRoutedRequiresTopicMetadata(t *testing.T) {
	bus := NewMemoryEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer bus.Close()

	err := bus.Publish("", message.NewMessage("id-1", []byte(`{}`)))
	assert.Error(t, err)
}

func TestDurableName(t *testing.T) {
	assert.Equal(t, "senshi_leveling_discord_message_created_v1", durableName("senshi_leveling", "discord.message.created.v1"))
	assert.Equal(t, "p_guild_any_all", durableName("p", "guild.*.>"))
}

func TestNkeyOption(t *testing.T) {
	kp, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := kp.Seed()
	require.NoError(t, err)

	opt, err := nkeyOption(string(seed))
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = nkeyOption("not-a-seed")
	assert.Error(t, err)
}
