package levelinghandlers

import (
	"context"

	levelingservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/application"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// FakeLevelingService is a programmable levelingservice.Service.
type FakeLevelingService struct {
	trace []string

	RecordActivityFunc func(ctx context.Context, in levelingservice.ActivityInput) (levelingservice.LevelChangeResult, error)
	StoredLevelFunc    func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (int, error)
	SetBioFunc         func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error
	ProfileFunc        func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*platform.Embed, error)
	GuildMembersFunc   func(ctx context.Context, guildID sharedtypes.GuildID) ([]levelingdb.UserProgress, error)
	PurgeGuildFunc     func(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)
}

func NewFakeLevelingService() *FakeLevelingService {
	return &FakeLevelingService{trace: []string{}}
}

func (f *FakeLevelingService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLevelingService) Trace() []string {
	return f.trace
}

func (f *FakeLevelingService) RecordActivity(ctx context.Context, in levelingservice.ActivityInput) (levelingservice.LevelChangeResult, error) {
	f.record("RecordActivity")
	if f.RecordActivityFunc != nil {
		return f.RecordActivityFunc(ctx, in)
	}
	return levelingservice.NoChange, nil
}

func (f *FakeLevelingService) StoredLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (int, error) {
	f.record("StoredLevel")
	if f.StoredLevelFunc != nil {
		return f.StoredLevelFunc(ctx, guildID, userID)
	}
	return 0, nil
}

func (f *FakeLevelingService) GetProgress(_ context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*levelingdb.UserProgress, error) {
	f.record("GetProgress")
	return &levelingdb.UserProgress{GuildID: guildID, UserID: userID, Username: username}, nil
}

func (f *FakeLevelingService) SetBio(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error {
	f.record("SetBio")
	if f.SetBioFunc != nil {
		return f.SetBioFunc(ctx, guildID, userID, username, bio)
	}
	return nil
}

func (f *FakeLevelingService) Profile(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*platform.Embed, error) {
	f.record("Profile")
	if f.ProfileFunc != nil {
		return f.ProfileFunc(ctx, guildID, userID)
	}
	return &platform.Embed{Title: string(userID) + "'s Profile"}, nil
}

func (f *FakeLevelingService) Leaderboard(context.Context, sharedtypes.GuildID, int) ([]levelingdb.UserProgress, error) {
	f.record("Leaderboard")
	return nil, nil
}

func (f *FakeLevelingService) GuildMembers(ctx context.Context, guildID sharedtypes.GuildID) ([]levelingdb.UserProgress, error) {
	f.record("GuildMembers")
	if f.GuildMembersFunc != nil {
		return f.GuildMembersFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *FakeLevelingService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	f.record("PurgeGuild")
	if f.PurgeGuildFunc != nil {
		return f.PurgeGuildFunc(ctx, guildID)
	}
	return 0, nil
}

var _ levelingservice.Service = (*FakeLevelingService)(nil)
