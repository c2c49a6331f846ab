package reactionrolehandlers

import (
	"context"

	reactionroleservice "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/application"
	reactionroledomain "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// FakeReactionRoleService is a programmable reactionroleservice.Service.
type FakeReactionRoleService struct {
	trace []string

	StartConfigureFunc   func(ctx context.Context, req reactionroleservice.ConfigureRequest) error
	OnReactionAddFunc    func(ctx context.Context, ev reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error)
	OnReactionRemoveFunc func(ctx context.Context, ev reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error)
	RefreshGuildFunc     func(ctx context.Context, guildID sharedtypes.GuildID) (int, error)
	PurgeGuildFunc       func(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)
}

func NewFakeReactionRoleService() *FakeReactionRoleService {
	return &FakeReactionRoleService{trace: []string{}}
}

func (f *FakeReactionRoleService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeReactionRoleService) Trace() []string { return f.trace }

func (f *FakeReactionRoleService) StartConfigure(ctx context.Context, req reactionroleservice.ConfigureRequest) error {
	f.record("StartConfigure")
	if f.StartConfigureFunc != nil {
		return f.StartConfigureFunc(ctx, req)
	}
	return nil
}

func (f *FakeReactionRoleService) Configure(context.Context, reactionroleservice.ConfigureRequest) (reactionroleservice.ConfigureResult, error) {
	f.record("Configure")
	return reactionroleservice.ConfigureResult{State: reactionroleservice.Done}, nil
}

func (f *FakeReactionRoleService) OnReactionAdd(ctx context.Context, ev reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error) {
	f.record("OnReactionAdd")
	if f.OnReactionAddFunc != nil {
		return f.OnReactionAddFunc(ctx, ev)
	}
	return reactionroleservice.ReactionApplied, nil
}

func (f *FakeReactionRoleService) OnReactionRemove(ctx context.Context, ev reactionroleservice.ReactionEvent) (reactionroleservice.ReactionOutcome, error) {
	f.record("OnReactionRemove")
	if f.OnReactionRemoveFunc != nil {
		return f.OnReactionRemoveFunc(ctx, ev)
	}
	return reactionroleservice.ReactionApplied, nil
}

func (f *FakeReactionRoleService) Rebuild(context.Context) (int, error) {
	f.record("Rebuild")
	return 0, nil
}

func (f *FakeReactionRoleService) RefreshGuild(ctx context.Context, guildID sharedtypes.GuildID) (int, error) {
	f.record("RefreshGuild")
	if f.RefreshGuildFunc != nil {
		return f.RefreshGuildFunc(ctx, guildID)
	}
	return 0, nil
}

func (f *FakeReactionRoleService) Messages(sharedtypes.GuildID) []reactionroledomain.MessageConfig {
	f.record("Messages")
	return nil
}

func (f *FakeReactionRoleService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	f.record("PurgeGuild")
	if f.PurgeGuildFunc != nil {
		return f.PurgeGuildFunc(ctx, guildID)
	}
	return 0, nil
}

func (f *FakeReactionRoleService) Close() { f.record("Close") }
