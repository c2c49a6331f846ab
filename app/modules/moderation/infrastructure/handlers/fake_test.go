package moderationhandlers

import (
	"context"

	moderationservice "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
)

// FakeModerationService is a programmable moderationservice.Service.
type FakeModerationService struct {
	trace []string

	MuteMemberFunc   func(ctx context.Context, in moderationservice.MuteInput) (moderationservice.MuteResult, error)
	UnmuteMemberFunc func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (moderationservice.UnmuteResult, error)
	PurgeGuildFunc   func(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)
}

func NewFakeModerationService() *FakeModerationService {
	return &FakeModerationService{trace: []string{}}
}

func (f *FakeModerationService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeModerationService) Trace() []string { return f.trace }

func (f *FakeModerationService) MuteMember(ctx context.Context, in moderationservice.MuteInput) (moderationservice.MuteResult, error) {
	f.record("MuteMember")
	if f.MuteMemberFunc != nil {
		return f.MuteMemberFunc(ctx, in)
	}
	return moderationservice.MuteResult{Status: moderationservice.Muted}, nil
}

func (f *FakeModerationService) UnmuteMember(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (moderationservice.UnmuteResult, error) {
	f.record("UnmuteMember")
	if f.UnmuteMemberFunc != nil {
		return f.UnmuteMemberFunc(ctx, guildID, userID)
	}
	return moderationservice.UnmuteResult{}, nil
}

func (f *FakeModerationService) FireAction(context.Context, uuid.UUID) error {
	f.record("FireAction")
	return nil
}

func (f *FakeModerationService) Recover(context.Context) (moderationservice.RecoverReport, error) {
	f.record("Recover")
	return moderationservice.RecoverReport{}, nil
}

func (f *FakeModerationService) PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error) {
	f.record("PurgeGuild")
	if f.PurgeGuildFunc != nil {
		return f.PurgeGuildFunc(ctx, guildID)
	}
	return 0, nil
}
