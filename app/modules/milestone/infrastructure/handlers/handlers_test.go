package milestonehandlers

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	levelingevents "github.com/Black-And-White-Club/senshi-bot/internal/events/leveling"
	milestoneevents "github.com/Black-And-White-Club/senshi-bot/internal/events/milestone"
	"github.com/Black-And-White-Club/senshi-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const testGuild = sharedtypes.GuildID("guild-1")

func newTestHandlers(svc *FakeMilestoneService) Handlers {
	return NewMilestoneHandlers(svc, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func command(name string, perms int64, options map[string]string) *discordevents.CommandPayloadV1 {
	return &discordevents.CommandPayloadV1{
		Interaction: platform.InteractionRef{ID: "i-1", GuildID: testGuild, UserID: "admin"},
		Command:     name,
		Options:     options,
		Permissions: perms,
	}
}

func replyMessage(t *testing.T, results []handlerwrapper.Result) platform.Message {
	t.Helper()
	require.NotEmpty(t, results)
	require.Equal(t, discordevents.InteractionReplyRequestedV1, results[0].Topic)
	return results[0].Payload.(*discordevents.InteractionReplyPayloadV1).Message
}

func TestHandleLevelUp(t *testing.T) {
	svc := NewFakeMilestoneService()
	var got milestoneservice.LevelUpInput
	svc.GrantAllFunc = func(_ context.Context, in milestoneservice.LevelUpInput) ([]milestoneservice.RoleOutcome, error) {
		got = in
		return []milestoneservice.RoleOutcome{
			{Level: 5, RoleID: "role-a", Kind: milestoneservice.AlreadyHeld},
			{Level: 10, RoleID: "role-b", Kind: milestoneservice.Granted},
		}, nil
	}

	results, err := newTestHandlers(svc).HandleLevelUp(context.Background(), &levelingevents.LevelUpPayloadV1{
		GuildID: testGuild, UserID: "user-1", ChannelID: "chat", NewLevel: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, milestoneservice.LevelUpInput{GuildID: testGuild, UserID: "user-1", ChannelID: "chat", Level: 10}, got)
	require.Len(t, results, 1)
	assert.Equal(t, guildevents.AuditRequestedV1, results[0].Topic)
	audit := results[0].Payload.(*guildevents.AuditRequestedPayloadV1)
	assert.Equal(t, "<@user-1> received <@&role-b> for reaching level 10", audit.Description)
}

func TestHandleLevelUp_ErrorIsSwallowed(t *testing.T) {
	svc := NewFakeMilestoneService()
	svc.GrantAllFunc = func(context.Context, milestoneservice.LevelUpInput) ([]milestoneservice.RoleOutcome, error) {
		return nil, errors.New("member left")
	}
	results, err := newTestHandlers(svc).HandleLevelUp(context.Background(), &levelingevents.LevelUpPayloadV1{GuildID: testGuild})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHandleGapFillRequested(t *testing.T) {
	svc := NewFakeMilestoneService()
	var gotLevel int
	svc.GapFillFunc = func(_ context.Context, _ sharedtypes.GuildID, _ sharedtypes.DiscordID, level int) ([]milestoneservice.RoleOutcome, error) {
		gotLevel = level
		return nil, nil
	}
	results, err := newTestHandlers(svc).HandleGapFillRequested(context.Background(), &milestoneevents.GapFillRequestedPayloadV1{
		GuildID: testGuild, UserID: "user-1", Level: 7,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 7, gotLevel)
}

func TestHandleSetupMilestone(t *testing.T) {
	tests := []struct {
		name      string
		perms     int64
		options   map[string]string
		addErr    error
		wantText  string
		wantAudit bool
		wantTrace []string
	}{
		{
			name:      "no permission",
			options:   map[string]string{"level": "5", "role": "role-a"},
			wantText:  noManageRoles,
			wantTrace: []string{},
		},
		{
			name:      "bad level",
			perms:     discordevents.PermissionManageRoles,
			options:   map[string]string{"level": "five", "role": "role-a"},
			wantText:  "Please provide a valid level.",
			wantTrace: []string{},
		},
		{
			name:      "created",
			perms:     discordevents.PermissionAdministrator,
			options:   map[string]string{"level": "5", "role": "role-a"},
			wantText:  "Milestone set! When a user reaches level 5, they will be granted the <@&role-a> role.",
			wantAudit: true,
			wantTrace: []string{"AddMilestone"},
		},
		{
			name:      "duplicate",
			perms:     discordevents.PermissionManageRoles,
			options:   map[string]string{"level": "5", "role": "role-b"},
			addErr:    milestonedb.ErrMilestoneExists,
			wantText:  "A milestone for level 5 already exists.",
			wantTrace: []string{"AddMilestone"},
		},
		{
			name:      "storage error",
			perms:     discordevents.PermissionManageRoles,
			options:   map[string]string{"level": "5", "role": "role-b"},
			addErr:    errors.New("down"),
			wantText:  "An error occurred while setting the milestone. Please try again later.",
			wantTrace: []string{"AddMilestone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeMilestoneService()
			svc.AddMilestoneFunc = func(context.Context, sharedtypes.GuildID, int, sharedtypes.RoleID) error { return tt.addErr }

			results, err := newTestHandlers(svc).HandleSetupMilestone(context.Background(), command(discordevents.CommandSetupMilestone, tt.perms, tt.options))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, replyMessage(t, results).Content)
			assert.Equal(t, tt.wantTrace, svc.Trace())
			if tt.wantAudit {
				require.Len(t, results, 2)
				assert.Equal(t, guildevents.AuditRequestedV1, results[1].Topic)
			} else {
				assert.Len(t, results, 1)
			}
		})
	}
}

func TestHandleRemoveMilestone(t *testing.T) {
	svc := NewFakeMilestoneService()
	svc.RemoveMilestoneFunc = func(_ context.Context, _ sharedtypes.GuildID, level int) error {
		if level == 9 {
			return milestonedb.ErrMilestoneNotFound
		}
		return nil
	}
	h := newTestHandlers(svc)

	results, err := h.HandleRemoveMilestone(context.Background(), command(discordevents.CommandRemoveMilestone, discordevents.PermissionManageRoles, map[string]string{"level": "9"}))
	require.NoError(t, err)
	assert.Equal(t, "No milestone found for level 9.", replyMessage(t, results).Content)

	results, err = h.HandleRemoveMilestone(context.Background(), command(discordevents.CommandRemoveMilestone, discordevents.PermissionManageRoles, map[string]string{"level": "5"}))
	require.NoError(t, err)
	assert.Equal(t, "Milestone for level 5 has been removed.", replyMessage(t, results).Content)
	assert.Len(t, results, 2)
}

func TestHandleViewMilestones(t *testing.T) {
	svc := NewFakeMilestoneService()
	svc.ListMilestonesFunc = func(context.Context, sharedtypes.GuildID) ([]milestonedomain.Binding, error) {
		return []milestonedomain.Binding{{Level: 5, RoleID: "a"}, {Level: 10, RoleID: "b"}}, nil
	}
	results, err := newTestHandlers(svc).HandleViewMilestones(context.Background(), command(discordevents.CommandViewMilestones, 0, nil))
	require.NoError(t, err)
	msg := replyMessage(t, results)
	require.NotNil(t, msg.Embed)
	assert.Equal(t, "Level 5 → <@&a>\nLevel 10 → <@&b>", msg.Embed.Description)

	empty := NewFakeMilestoneService()
	results, err = newTestHandlers(empty).HandleViewMilestones(context.Background(), command(discordevents.CommandViewMilestones, 0, nil))
	require.NoError(t, err)
	assert.Equal(t, "No milestones set", replyMessage(t, results).Embed.Description)
}
