package milestonehandlers

import (
	"context"

	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// FakeMilestoneService is a programmable milestoneservice.Service.
type FakeMilestoneService struct {
	trace []string

	AddMilestoneFunc    func(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error
	RemoveMilestoneFunc func(ctx context.Context, guildID sharedtypes.GuildID, level int) error
	ListMilestonesFunc  func(ctx context.Context, guildID sharedtypes.GuildID) ([]milestonedomain.Binding, error)
	GrantAllFunc        func(ctx context.Context, in milestoneservice.LevelUpInput) ([]milestoneservice.RoleOutcome, error)
	GapFillFunc         func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) ([]milestoneservice.RoleOutcome, error)
}

func NewFakeMilestoneService() *FakeMilestoneService {
	return &FakeMilestoneService{trace: []string{}}
}

func (f *FakeMilestoneService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeMilestoneService) Trace() []string { return f.trace }

func (f *FakeMilestoneService) AddMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) error {
	f.record("AddMilestone")
	if f.AddMilestoneFunc != nil {
		return f.AddMilestoneFunc(ctx, guildID, level, roleID)
	}
	return nil
}

func (f *FakeMilestoneService) RemoveMilestone(ctx context.Context, guildID sharedtypes.GuildID, level int) error {
	f.record("RemoveMilestone")
	if f.RemoveMilestoneFunc != nil {
		return f.RemoveMilestoneFunc(ctx, guildID, level)
	}
	return nil
}

func (f *FakeMilestoneService) ListMilestones(ctx context.Context, guildID sharedtypes.GuildID) ([]milestonedomain.Binding, error) {
	f.record("ListMilestones")
	if f.ListMilestonesFunc != nil {
		return f.ListMilestonesFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *FakeMilestoneService) GetRewardsUpTo(context.Context, sharedtypes.GuildID, int) ([]milestonedomain.Binding, error) {
	f.record("GetRewardsUpTo")
	return nil, nil
}

func (f *FakeMilestoneService) IsMilestoneLevel(context.Context, sharedtypes.GuildID, int) (bool, error) {
	f.record("IsMilestoneLevel")
	return false, nil
}

func (f *FakeMilestoneService) ImportMilestones(context.Context, sharedtypes.GuildID, []byte) (milestoneservice.ImportReport, error) {
	f.record("ImportMilestones")
	return milestoneservice.ImportReport{}, nil
}

func (f *FakeMilestoneService) PurgeGuild(context.Context, sharedtypes.GuildID) (int64, error) {
	f.record("PurgeGuild")
	return 0, nil
}

func (f *FakeMilestoneService) GrantAll(ctx context.Context, in milestoneservice.LevelUpInput) ([]milestoneservice.RoleOutcome, error) {
	f.record("GrantAll")
	if f.GrantAllFunc != nil {
		return f.GrantAllFunc(ctx, in)
	}
	return nil, nil
}

func (f *FakeMilestoneService) GapFill(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) ([]milestoneservice.RoleOutcome, error) {
	f.record("GapFill")
	if f.GapFillFunc != nil {
		return f.GapFillFunc(ctx, guildID, userID, level)
	}
	return nil, nil
}

var _ milestoneservice.Service = (*FakeMilestoneService)(nil)
