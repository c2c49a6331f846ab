package reactionroleservice

import (
	"context"
	"sort"
	"sync"

	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Reaction Role Repo
// ------------------------

type FakeReactionRoleRepo struct {
	mu    sync.Mutex
	trace []string
	rows  []reactionroledb.ReactionRole

	CreateBindingsFunc func(ctx context.Context, db bun.IDB, rows []reactionroledb.ReactionRole) error
}

func NewFakeReactionRoleRepo(rows ...reactionroledb.ReactionRole) *FakeReactionRoleRepo {
	return &FakeReactionRoleRepo{trace: []string{}, rows: rows}
}

func (f *FakeReactionRoleRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeReactionRoleRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeReactionRoleRepo) Rows() []reactionroledb.ReactionRole {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reactionroledb.ReactionRole(nil), f.rows...)
}

func (f *FakeReactionRoleRepo) sorted(filter func(reactionroledb.ReactionRole) bool) []reactionroledb.ReactionRole {
	var out []reactionroledb.ReactionRole
	for _, r := range f.rows {
		if filter(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GuildID != out[j].GuildID {
			return out[i].GuildID < out[j].GuildID
		}
		return out[i].MessageID < out[j].MessageID
	})
	return out
}

func (f *FakeReactionRoleRepo) ListAll(context.Context, bun.IDB) ([]reactionroledb.ReactionRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListAll")
	return f.sorted(func(reactionroledb.ReactionRole) bool { return true }), nil
}

func (f *FakeReactionRoleRepo) ListGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) ([]reactionroledb.ReactionRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListGuild")
	return f.sorted(func(r reactionroledb.ReactionRole) bool { return r.GuildID == guildID }), nil
}

func (f *FakeReactionRoleRepo) CreateBindings(ctx context.Context, db bun.IDB, rows []reactionroledb.ReactionRole) error {
	f.mu.Lock()
	f.record("CreateBindings")
	fn := f.CreateBindingsFunc
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, db, rows); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *FakeReactionRoleRepo) DeleteGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteGuild")
	kept := f.rows[:0]
	var n int64
	for _, r := range f.rows {
		if r.GuildID == guildID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu     sync.Mutex
	Topics []string
}

func (f *FakePublisher) PublishEvent(_ context.Context, topic string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Topics = append(f.Topics, topic)
	return nil
}

func (f *FakePublisher) Published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Topics...)
}
