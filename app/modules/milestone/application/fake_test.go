package milestoneservice

import (
	"context"
	"sort"
	"sync"

	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Milestone Repo
// ------------------------

type FakeMilestoneRepo struct {
	mu    sync.Mutex
	trace []string
	rows  map[sharedtypes.GuildID]map[int]sharedtypes.RoleID

	ListMilestonesFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]milestonedb.MilestoneLevel, error)
	CreateMilestoneFunc func(ctx context.Context, db bun.IDB, milestone *milestonedb.MilestoneLevel) error
}

func NewFakeMilestoneRepo() *FakeMilestoneRepo {
	return &FakeMilestoneRepo{
		trace: []string{},
		rows:  make(map[sharedtypes.GuildID]map[int]sharedtypes.RoleID),
	}
}

func (f *FakeMilestoneRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMilestoneRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMilestoneRepo) Seed(guildID sharedtypes.GuildID, level int, roleID sharedtypes.RoleID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[guildID] == nil {
		f.rows[guildID] = make(map[int]sharedtypes.RoleID)
	}
	f.rows[guildID][level] = roleID
}

func (f *FakeMilestoneRepo) ListMilestones(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]milestonedb.MilestoneLevel, error) {
	f.mu.Lock()
	f.record("ListMilestones")
	fn := f.ListMilestonesFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, db, guildID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []milestonedb.MilestoneLevel
	for level, role := range f.rows[guildID] {
		out = append(out, milestonedb.MilestoneLevel{GuildID: guildID, Level: level, RewardRoleID: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (f *FakeMilestoneRepo) CreateMilestone(ctx context.Context, db bun.IDB, milestone *milestonedb.MilestoneLevel) error {
	f.mu.Lock()
	f.record("CreateMilestone")
	fn := f.CreateMilestoneFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, db, milestone)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[milestone.GuildID][milestone.Level]; ok {
		return milestonedb.ErrMilestoneExists
	}
	if f.rows[milestone.GuildID] == nil {
		f.rows[milestone.GuildID] = make(map[int]sharedtypes.RoleID)
	}
	f.rows[milestone.GuildID][milestone.Level] = milestone.RewardRoleID
	return nil
}

func (f *FakeMilestoneRepo) DeleteMilestone(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteMilestone")
	if _, ok := f.rows[guildID][level]; !ok {
		return milestonedb.ErrMilestoneNotFound
	}
	delete(f.rows[guildID], level)
	return nil
}

func (f *FakeMilestoneRepo) DeleteGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteGuild")
	n := int64(len(f.rows[guildID]))
	delete(f.rows, guildID)
	return n, nil
}

var _ milestonedb.Repository = (*FakeMilestoneRepo)(nil)

// ------------------------
// Fake Rank-Up Channels
// ------------------------

type fakeChannels map[sharedtypes.GuildID]sharedtypes.ChannelID

func (f fakeChannels) RankUpChannel(_ context.Context, guildID sharedtypes.GuildID) (sharedtypes.ChannelID, error) {
	return f[guildID], nil
}
