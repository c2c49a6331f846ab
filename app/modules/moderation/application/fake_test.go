package moderationservice

import (
	"context"
	"sort"
	"sync"
	"time"

	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Moderation Repo
// ------------------------

type FakeModerationRepo struct {
	mu          sync.Mutex
	trace       []string
	punishments []moderationdb.Punishment
	actions     map[uuid.UUID]*moderationdb.ScheduledAction

	CreateActionFunc func(ctx context.Context, db bun.IDB, action *moderationdb.ScheduledAction) error
}

func NewFakeModerationRepo() *FakeModerationRepo {
	return &FakeModerationRepo{trace: []string{}, actions: make(map[uuid.UUID]*moderationdb.ScheduledAction)}
}

func (f *FakeModerationRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeModerationRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeModerationRepo) Action(id uuid.UUID) (moderationdb.ScheduledAction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok {
		return moderationdb.ScheduledAction{}, false
	}
	return *a, true
}

func (f *FakeModerationRepo) Punishments() []moderationdb.Punishment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]moderationdb.Punishment(nil), f.punishments...)
}

func (f *FakeModerationRepo) SeedAction(a moderationdb.ScheduledAction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions[a.ID] = &a
}

func (f *FakeModerationRepo) CreatePunishment(_ context.Context, _ bun.IDB, p *moderationdb.Punishment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreatePunishment")
	f.punishments = append(f.punishments, *p)
	return nil
}

func (f *FakeModerationRepo) ListPunishments(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]moderationdb.Punishment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPunishments")
	var out []moderationdb.Punishment
	for _, p := range f.punishments {
		if p.GuildID == guildID && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeModerationRepo) CreateAction(ctx context.Context, db bun.IDB, action *moderationdb.ScheduledAction) error {
	f.mu.Lock()
	f.record("CreateAction")
	fn := f.CreateActionFunc
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, db, action); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := *action
	f.actions[a.ID] = &a
	return nil
}

func (f *FakeModerationRepo) GetActionForUpdate(_ context.Context, _ bun.IDB, id uuid.UUID) (*moderationdb.ScheduledAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetActionForUpdate")
	a, ok := f.actions[id]
	if !ok {
		return nil, moderationdb.ErrActionNotFound
	}
	out := *a
	return &out, nil
}

func (f *FakeModerationRepo) UpdateAction(_ context.Context, _ bun.IDB, action *moderationdb.ScheduledAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateAction:" + string(action.Status))
	a := *action
	f.actions[a.ID] = &a
	return nil
}

func (f *FakeModerationRepo) ListPendingActions(context.Context, bun.IDB) ([]moderationdb.ScheduledAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPendingActions")
	var out []moderationdb.ScheduledAction
	for _, a := range f.actions {
		if a.Status == moderationdb.StatusPending {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out, nil
}

func (f *FakeModerationRepo) CancelPendingActions(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CancelPendingActions")
	var ids []uuid.UUID
	for id, a := range f.actions {
		if a.GuildID == guildID && a.UserID == userID && a.Status == moderationdb.StatusPending {
			a.Status = moderationdb.StatusCancelled
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *FakeModerationRepo) DeleteGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteGuild")
	var n int64
	for id, a := range f.actions {
		if a.GuildID == guildID {
			delete(f.actions, id)
			n++
		}
	}
	kept := f.punishments[:0]
	for _, p := range f.punishments {
		if p.GuildID != guildID {
			kept = append(kept, p)
			continue
		}
		n++
	}
	f.punishments = kept
	return n, nil
}

// ------------------------
// Fake Mute Roles
// ------------------------

type FakeMuteRoles map[int]sharedtypes.RoleID

func (f FakeMuteRoles) MuteRole(_ context.Context, _ sharedtypes.GuildID, level int) (sharedtypes.RoleID, error) {
	if level != 1 && level != 2 {
		return "", ErrInvalidLevel
	}
	role, ok := f[level]
	if !ok {
		return "", errMuteRoleNotSet
	}
	return role, nil
}

// ------------------------
// Fake Scheduler
// ------------------------

type FakeScheduler struct {
	mu        sync.Mutex
	Scheduled map[uuid.UUID]time.Time
	Cancelled []uuid.UUID

	ScheduleErr error
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{Scheduled: make(map[uuid.UUID]time.Time)}
}

func (f *FakeScheduler) Schedule(_ context.Context, id uuid.UUID, fireAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ScheduleErr != nil {
		return f.ScheduleErr
	}
	f.Scheduled[id] = fireAt
	return nil
}

func (f *FakeScheduler) Cancel(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cancelled = append(f.Cancelled, ids...)
	return nil
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	Topics   []string
	Payloads []any
}

func (f *FakePublisher) PublishEvent(_ context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Topics = append(f.Topics, topic)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) Published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Topics...)
}
