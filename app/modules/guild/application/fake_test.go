package guildservice

import (
	"context"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Guild Repo
// ------------------------

type FakeGuildRepo struct {
	trace []string

	GetConfigFunc    func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guilddb.ServerConfig, error)
	EnsureConfigFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error)
	SetChannelFunc   func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error
	SetMuteRoleFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error
	DeleteConfigFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error
}

func NewFakeGuildRepo() *FakeGuildRepo {
	return &FakeGuildRepo{
		trace: []string{},
	}
}

func (f *FakeGuildRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeGuildRepo) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guilddb.ServerConfig, error) {
	f.record("GetConfig")
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, db, guildID)
	}
	return nil, guilddb.ErrNotFound
}

func (f *FakeGuildRepo) EnsureConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error) {
	f.record("EnsureConfig")
	if f.EnsureConfigFunc != nil {
		return f.EnsureConfigFunc(ctx, db, guildID, guildName)
	}
	return &guilddb.ServerConfig{GuildID: guildID, GuildName: guildName}, nil
}

func (f *FakeGuildRepo) SetChannel(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error {
	f.record("SetChannel")
	if f.SetChannelFunc != nil {
		return f.SetChannelFunc(ctx, db, guildID, kind, channelID)
	}
	return nil
}

func (f *FakeGuildRepo) SetMuteRole(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	f.record("SetMuteRole")
	if f.SetMuteRoleFunc != nil {
		return f.SetMuteRoleFunc(ctx, db, guildID, level, roleID)
	}
	return nil
}

func (f *FakeGuildRepo) DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error {
	f.record("DeleteConfig")
	if f.DeleteConfigFunc != nil {
		return f.DeleteConfigFunc(ctx, db, guildID)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeGuildRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ guilddb.Repository = (*FakeGuildRepo)(nil)
