package reactionrolehandlers

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const testGuild = sharedtypes.GuildID("guild-1")

func newTestHandlers(svc *FakeReactionRoleService) Handlers {
	return NewReactionRoleHandlers(svc, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func command(name string, perms int64, options map[string]string) *discordevents.CommandPayloadV1 {
	return &discordevents.CommandPayloadV1{
		Interaction: platform.InteractionRef{ID: "i-1", GuildID: testGuild, ChannelID: "commands", UserID: "admin"},
		Command:     name,
		Options:     options,
		Permissions: perms,
	}
}

func replyMessage(t *testing.T, results []handlerwrapper.Result) platform.Message {
	t.Helper()
	require.Len(t, results, 1)
	require.Equal(t, discordevents.InteractionReplyRequestedV1, results[0].Topic)
	return results[0].Payload.(*discordevents.InteractionReplyPayloadV1).Message
}

func TestHandleReactionAdded(t *testing.T) {
	svc := NewFakeReactionRoleService()
	var got reactionroleservice.ReactionEvent
	svc.OnReactionAddFunc = func(_ context.Context, ev reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error) {
		got = ev
		return reactionroleservice.ReactionApplied, nil
	}

	results, err := newTestHandlers(svc).HandleReactionAdded(context.Background(), &discordevents.ReactionPayloadV1{
		GuildID: testGuild, MessageID: "m1", UserID: "user-1", Emoji: "🔥",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, reactionroleservice.ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: "user-1", Emoji: "🔥"}, got)
}

func TestHandleReactionRemoved_ErrorIsAcked(t *testing.T) {
	svc := NewFakeReactionRoleService()
	svc.OnReactionRemoveFunc = func(context.Context, reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error) {
		return "", errors.New("missing access")
	}

	results, err := newTestHandlers(svc).HandleReactionRemoved(context.Background(), &discordevents.ReactionPayloadV1{GuildID: testGuild})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, []string{"OnReactionRemove"}, svc.Trace())
}

func TestHandleSetupReactionRole(t *testing.T) {
	tests := []struct {
		name      string
		perms     int64
		options   map[string]string
		startErr  error
		want      string
		wantTrace []string
	}{
		{
			name:      "starts setup",
			perms:     discordevents.PermissionManageRoles,
			options:   map[string]string{"channel": "roles"},
			want:      reactionroleservice.IntroPrompt,
			wantTrace: []string{"StartConfigure"},
		},
		{
			name:      "requires manage roles",
			perms:     0,
			options:   map[string]string{"channel": "roles"},
			want:      noManageRoles,
			wantTrace: []string{},
		},
		{
			name:      "requires channel",
			perms:     discordevents.PermissionAdministrator,
			want:      missingChannel,
			wantTrace: []string{},
		},
		{
			name:      "service closed",
			perms:     discordevents.PermissionManageRoles,
			options:   map[string]string{"channel": "roles"},
			startErr:  reactionroleservice.ErrClosed,
			want:      setupFailed,
			wantTrace: []string{"StartConfigure"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeReactionRoleService()
			var got reactionroleservice.ConfigureRequest
			svc.StartConfigureFunc = func(_ context.Context, req reactionroleservice.ConfigureRequest) error {
				got = req
				return tt.startErr
			}

			results, err := newTestHandlers(svc).HandleSetupReactionRole(context.Background(), command(discordevents.CommandSetupReactionRole, tt.perms, tt.options))
			require.NoError(t, err)
			assert.Equal(t, tt.want, replyMessage(t, results).Content)
			assert.Equal(t, tt.wantTrace, svc.Trace())
			if tt.startErr == nil && len(tt.wantTrace) > 0 {
				assert.Equal(t, reactionroleservice.ConfigureRequest{
					GuildID: testGuild, ChannelID: "roles", PromptChannelID: "commands", AdminID: "admin",
				}, got)
			}
		})
	}
}

func TestHandleRefreshReactions(t *testing.T) {
	tests := []struct {
		name       string
		perms      int64
		refreshErr error
		want       string
	}{
		{name: "refreshes", perms: discordevents.PermissionAdministrator, want: "All reaction roles have been refreshed! 3 reaction role messages loaded."},
		{name: "manage roles is not enough", perms: discordevents.PermissionManageRoles, want: noAdmin},
		{name: "storage failure", perms: discordevents.PermissionAdministrator, refreshErr: errors.New("db down"), want: refreshFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeReactionRoleService()
			svc.RefreshGuildFunc = func(context.Context, sharedtypes.GuildID) (int, error) {
				return 3, tt.refreshErr
			}
			results, err := newTestHandlers(svc).HandleRefreshReactions(context.Background(), command(discordevents.CommandRefreshReactions, tt.perms, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, replyMessage(t, results).Content)
		})
	}
}

func TestHandleGuildConfigDeleted(t *testing.T) {
	svc := NewFakeReactionRoleService()
	var purged sharedtypes.GuildID
	svc.PurgeGuildFunc = func(_ context.Context, guildID sharedtypes.GuildID) (int64, error) {
		purged = guildID
		return 2, nil
	}
	_, err := newTestHandlers(svc).HandleGuildConfigDeleted(context.Background(), &guildevents.GuildConfigDeletedPayloadV1{GuildID: testGuild})
	require.NoError(t, err)
	assert.Equal(t, testGuild, purged)
}
