package reactionroleservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	reactionroledomain "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/domain"
	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	reactionroleevents "github.com/Black-And-White-Club/senshi-bot/internal/events/reactionrole"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform/platformtest"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	testGuild   = sharedtypes.GuildID("guild-1")
	testUser    = sharedtypes.DiscordID("user-1")
	testAdmin   = sharedtypes.DiscordID("admin-1")
	roleChannel = sharedtypes.ChannelID("roles")
	cmdChannel  = sharedtypes.ChannelID("commands")
)

type testDeps struct {
	repo       *FakeReactionRoleRepo
	membership *platformtest.FakeMembership
	notifier   *platformtest.FakeNotifier
	awaiter    *platformtest.FakeReplyAwaiter
	publisher  *FakePublisher
}

func newTestService(d testDeps) *ReactionRoleService {
	if d.repo == nil {
		d.repo = NewFakeReactionRoleRepo()
	}
	if d.membership == nil {
		d.membership = platformtest.NewFakeMembership(50)
	}
	if d.notifier == nil {
		d.notifier = platformtest.NewFakeNotifier()
	}
	if d.awaiter == nil {
		d.awaiter = platformtest.NewFakeReplyAwaiter()
	}
	var pub EventPublisher
	if d.publisher != nil {
		pub = d.publisher
	}
	return NewReactionRoleService(d.repo, d.membership, d.notifier, d.awaiter, pub, slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil, time.Second)
}

func contents(sent []platformtest.SentMessage) []string {
	out := make([]string, 0, len(sent))
	for _, m := range sent {
		if m.Message.Embed != nil {
			out = append(out, "embed:"+m.Message.Embed.Title)
			continue
		}
		out = append(out, m.Message.Content)
	}
	return out
}

func TestConfigure_HappyPath(t *testing.T) {
	repo := NewFakeReactionRoleRepo()
	notifier := platformtest.NewFakeNotifier()
	publisher := &FakePublisher{}
	svc := newTestService(testDeps{
		repo:      repo,
		notifier:  notifier,
		awaiter:   platformtest.NewFakeReplyAwaiter("<@&111> 🔥, <@&222> <a:dance:9>", "Pick your roles"),
		publisher: publisher,
	})

	res, err := svc.Configure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel, AdminID: testAdmin})
	require.NoError(t, err)
	assert.Equal(t, Done, res.State)
	require.NotEmpty(t, res.MessageID)

	assert.Equal(t, []string{
		pairsPrompt,
		textPrompt,
		"embed:" + embedTitle,
		"Reaction role message has been set up in <#roles>.",
	}, contents(notifier.Messages()))

	embed := notifier.Messages()[2]
	assert.Equal(t, roleChannel, embed.ChannelID)
	assert.Equal(t, "Pick your roles", embed.Message.Embed.Description)
	assert.Equal(t, embedColor, embed.Message.Embed.Color)
	assert.Equal(t, []string{"🔥", "dance:9"}, notifier.Reactions)

	assert.Len(t, repo.Rows(), 2)
	role, ok := svc.cache.Lookup(testGuild, res.MessageID, "<:dance:9>")
	assert.True(t, ok)
	assert.Equal(t, sharedtypes.RoleID("222"), role)

	assert.Equal(t, []string{reactionroleevents.MessageConfiguredV1, guildevents.AuditRequestedV1}, publisher.Published())
}

func TestConfigure_Aborts(t *testing.T) {
	tests := []struct {
		name     string
		replies  []string
		wantErr  error
		wantLast string
		wantSent int
	}{
		{name: "timeout on roles", replies: nil, wantErr: apperrors.ErrTimeout, wantLast: timeoutMessage, wantSent: 2},
		{name: "timeout on text", replies: []string{"<@&1> 🔥"}, wantErr: apperrors.ErrTimeout, wantLast: timeoutMessage, wantSent: 3},
		{name: "empty roles", replies: []string{"   "}, wantErr: apperrors.ErrInvalidInput, wantLast: noPairsMessage, wantSent: 2},
		{name: "unparseable roles", replies: []string{"<@&1>"}, wantErr: apperrors.ErrInvalidInput, wantSent: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeReactionRoleRepo()
			notifier := platformtest.NewFakeNotifier()
			svc := newTestService(testDeps{repo: repo, notifier: notifier, awaiter: platformtest.NewFakeReplyAwaiter(tt.replies...)})

			res, err := svc.Configure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel, AdminID: testAdmin})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, Aborted, res.State)
			assert.Empty(t, repo.Trace(), "nothing is persisted")
			assert.Empty(t, notifier.Reactions)

			sent := contents(notifier.Messages())
			require.Len(t, sent, tt.wantSent)
			if tt.wantLast != "" {
				assert.Equal(t, tt.wantLast, sent[len(sent)-1])
			}
			assert.Equal(t, 0, svc.cache.Len())
		})
	}
}

func TestConfigure_PersistFailureLeavesOrphanAndCacheUntouched(t *testing.T) {
	repo := NewFakeReactionRoleRepo()
	repo.CreateBindingsFunc = func(context.Context, bun.IDB, []reactionroledb.ReactionRole) error {
		return apperrors.Persistence("create reaction roles", errors.New("db down"))
	}
	notifier := platformtest.NewFakeNotifier()
	svc := newTestService(testDeps{repo: repo, notifier: notifier, awaiter: platformtest.NewFakeReplyAwaiter("<@&1> 🔥", "hello")})

	res, err := svc.Configure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel, AdminID: testAdmin})
	require.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Equal(t, Aborted, res.State)
	assert.NotEmpty(t, res.MessageID, "published message is kept")
	assert.Empty(t, notifier.Deleted)
	assert.Equal(t, 0, svc.cache.Len())

	sent := contents(notifier.Messages())
	assert.Equal(t, failedMessage, sent[len(sent)-1])
}

func TestConfigure_ReactionFailureAbortsBeforePersisting(t *testing.T) {
	repo := NewFakeReactionRoleRepo()
	notifier := platformtest.NewFakeNotifier()
	notifier.AddReactionFunc = func(context.Context, sharedtypes.ChannelID, sharedtypes.MessageID, string) error {
		return errors.New("unknown emoji")
	}
	svc := newTestService(testDeps{repo: repo, notifier: notifier, awaiter: platformtest.NewFakeReplyAwaiter("<@&1> 🔥", "hello")})

	res, err := svc.Configure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel, AdminID: testAdmin})
	require.Error(t, err)
	assert.Equal(t, Aborted, res.State)
	assert.Empty(t, repo.Trace())
}

func TestStartConfigure_CloseWaitsForFlows(t *testing.T) {
	notifier := platformtest.NewFakeNotifier()
	svc := newTestService(testDeps{notifier: notifier, awaiter: platformtest.NewFakeReplyAwaiter("<@&1> 🔥", "hello")})

	require.NoError(t, svc.StartConfigure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel, AdminID: testAdmin}))
	svc.Close()

	assert.ErrorIs(t, svc.StartConfigure(context.Background(), ConfigureRequest{GuildID: testGuild, ChannelID: roleChannel, PromptChannelID: cmdChannel}), ErrClosed)
}

func TestStartConfigure_RequiresChannel(t *testing.T) {
	svc := newTestService(testDeps{})
	defer svc.Close()
	err := svc.StartConfigure(context.Background(), ConfigureRequest{GuildID: testGuild, PromptChannelID: cmdChannel})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func seededService(t *testing.T, membership *platformtest.FakeMembership) *ReactionRoleService {
	t.Helper()
	repo := NewFakeReactionRoleRepo(
		reactionroledb.ReactionRole{GuildID: testGuild, ChannelID: roleChannel, MessageID: "m1", Emoji: "🔥", RoleID: "role-fire"},
		reactionroledb.ReactionRole{GuildID: testGuild, ChannelID: roleChannel, MessageID: "m1", Emoji: "<:pepe:9>", RoleID: "role-high"},
	)
	svc := newTestService(testDeps{repo: repo, membership: membership})
	n, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	return svc
}

func TestOnReactionAdd(t *testing.T) {
	tests := []struct {
		name      string
		ev        ReactionEvent
		manage    bool
		want      ReactionOutcome
		wantTrace []string
	}{
		{
			name:      "grants bound role",
			ev:        ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "🔥"},
			manage:    true,
			want:      ReactionApplied,
			wantTrace: []string{"CanManageRoles", "ResolveRole", "BotMember", "AddRole:role-fire"},
		},
		{
			name:   "bot reactions are ignored",
			ev:     ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: "bot", Emoji: "🔥", Bot: true},
			manage: true,
			want:   ReactionIgnored,
		},
		{
			name:   "unbound emoji",
			ev:     ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "✅"},
			manage: true,
			want:   ReactionUnbound,
		},
		{
			name:      "missing permission aborts silently",
			ev:        ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "🔥"},
			manage:    false,
			want:      ReactionNoPerms,
			wantTrace: []string{"CanManageRoles"},
		},
		{
			name:      "role above bot aborts silently",
			ev:        ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "<:pepe:9>"},
			manage:    true,
			want:      ReactionHierarchy,
			wantTrace: []string{"CanManageRoles", "ResolveRole", "BotMember"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			membership := platformtest.NewFakeMembership(50)
			membership.AddGuildRole("role-fire", 10)
			membership.AddGuildRole("role-high", 60)
			membership.AddMember(testUser)
			membership.Manage = tt.manage
			svc := seededService(t, membership)

			got, err := svc.OnReactionAdd(context.Background(), tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantTrace == nil {
				tt.wantTrace = []string{}
			}
			assert.Equal(t, tt.wantTrace, membership.Trace())
		})
	}
}

func TestOnReactionRemove(t *testing.T) {
	membership := platformtest.NewFakeMembership(50)
	membership.AddGuildRole("role-fire", 10)
	membership.AddMember(testUser, "role-fire")
	svc := seededService(t, membership)

	got, err := svc.OnReactionRemove(context.Background(), ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "🔥"})
	require.NoError(t, err)
	assert.Equal(t, ReactionApplied, got)

	member, err := membership.FetchMember(context.Background(), testGuild, testUser)
	require.NoError(t, err)
	assert.False(t, member.HasRole("role-fire"))
}

func TestOnReactionAdd_RoleFailureIsReturned(t *testing.T) {
	membership := platformtest.NewFakeMembership(50)
	membership.AddGuildRole("role-fire", 10)
	membership.AddMember(testUser)
	membership.AddRoleFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID, sharedtypes.RoleID) error {
		return errors.New("missing access")
	}
	svc := seededService(t, membership)

	_, err := svc.OnReactionAdd(context.Background(), ReactionEvent{GuildID: testGuild, MessageID: "m1", UserID: testUser, Emoji: "🔥"})
	assert.Error(t, err)
}

func TestRefreshAndPurge(t *testing.T) {
	repo := NewFakeReactionRoleRepo(
		reactionroledb.ReactionRole{GuildID: testGuild, ChannelID: roleChannel, MessageID: "m1", Emoji: "🔥", RoleID: "r1"},
		reactionroledb.ReactionRole{GuildID: testGuild, ChannelID: roleChannel, MessageID: "m2", Emoji: "🔥", RoleID: "r2"},
		reactionroledb.ReactionRole{GuildID: "guild-2", ChannelID: "c", MessageID: "m3", Emoji: "🔥", RoleID: "r3"},
	)
	svc := newTestService(testDeps{repo: repo})
	ctx := context.Background()

	n, err := svc.RefreshGuild(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []reactionroledomain.MessageConfig{
		{ChannelID: roleChannel, MessageID: "m1", Pairs: []reactionroledomain.Pair{{Emoji: "🔥", RoleID: "r1"}}},
		{ChannelID: roleChannel, MessageID: "m2", Pairs: []reactionroledomain.Pair{{Emoji: "🔥", RoleID: "r2"}}},
	}, svc.Messages(testGuild))
	assert.Empty(t, svc.Messages("guild-2"), "other guilds are not loaded by a guild refresh")

	deleted, err := svc.PurgeGuild(ctx, testGuild)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
	assert.Empty(t, svc.Messages(testGuild))
	assert.Len(t, repo.Rows(), 1)
}
