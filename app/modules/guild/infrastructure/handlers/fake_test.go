package guildhandlers

import (
	"context"

	guildservice "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// ------------------------
// Fake Guild Service
// ------------------------

type FakeGuildService struct {
	trace []string

	EnsureConfigFunc    func(ctx context.Context, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error)
	SetChannelFunc      func(ctx context.Context, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error
	SetMuteRoleFunc     func(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error
	DeleteConfigFunc    func(ctx context.Context, guildID sharedtypes.GuildID) error
	AnnounceArrivalFunc func(ctx context.Context, channelID sharedtypes.ChannelID) error
	PostAuditFunc       func(ctx context.Context, guildID sharedtypes.GuildID, entry guildservice.AuditEntry) (bool, error)
}

func NewFakeGuildService() *FakeGuildService {
	return &FakeGuildService{
		trace: []string{},
	}
}

func (f *FakeGuildService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeGuildService) EnsureConfig(ctx context.Context, guildID sharedtypes.GuildID, guildName string) (*guilddb.ServerConfig, error) {
	f.record("EnsureConfig")
	if f.EnsureConfigFunc != nil {
		return f.EnsureConfigFunc(ctx, guildID, guildName)
	}
	return &guilddb.ServerConfig{GuildID: guildID, GuildName: guildName}, nil
}

func (f *FakeGuildService) GetConfig(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.ServerConfig, error) {
	f.record("GetConfig")
	return &guilddb.ServerConfig{GuildID: guildID}, nil
}

func (f *FakeGuildService) SetChannel(ctx context.Context, guildID sharedtypes.GuildID, kind guilddb.ChannelKind, channelID sharedtypes.ChannelID) error {
	f.record("SetChannel:" + string(kind))
	if f.SetChannelFunc != nil {
		return f.SetChannelFunc(ctx, guildID, kind, channelID)
	}
	return nil
}

func (f *FakeGuildService) SetMuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	f.record("SetMuteRole")
	if f.SetMuteRoleFunc != nil {
		return f.SetMuteRoleFunc(ctx, guildID, level, roleID)
	}
	return nil
}

func (f *FakeGuildService) DeleteConfig(ctx context.Context, guildID sharedtypes.GuildID) error {
	f.record("DeleteConfig")
	if f.DeleteConfigFunc != nil {
		return f.DeleteConfigFunc(ctx, guildID)
	}
	return nil
}

func (f *FakeGuildService) RankUpChannel(ctx context.Context, guildID sharedtypes.GuildID) (sharedtypes.ChannelID, error) {
	f.record("RankUpChannel")
	return "", nil
}

func (f *FakeGuildService) MuteRole(ctx context.Context, guildID sharedtypes.GuildID, level int) (sharedtypes.RoleID, error) {
	f.record("MuteRole")
	return "", guildservice.ErrMuteRoleNotSet
}

func (f *FakeGuildService) WelcomeMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error) {
	f.record("WelcomeMember")
	return true, nil
}

func (f *FakeGuildService) AnnounceArrival(ctx context.Context, channelID sharedtypes.ChannelID) error {
	f.record("AnnounceArrival")
	if f.AnnounceArrivalFunc != nil {
		return f.AnnounceArrivalFunc(ctx, channelID)
	}
	return nil
}

func (f *FakeGuildService) FarewellMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error) {
	f.record("FarewellMember")
	return true, nil
}

func (f *FakeGuildService) PostAudit(ctx context.Context, guildID sharedtypes.GuildID, entry guildservice.AuditEntry) (bool, error) {
	f.record("PostAudit")
	if f.PostAuditFunc != nil {
		return f.PostAuditFunc(ctx, guildID, entry)
	}
	return true, nil
}

// --- Accessors for assertions ---

func (f *FakeGuildService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ guildservice.Service = (*FakeGuildService)(nil)
