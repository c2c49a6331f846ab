package levelingservice

import (
	"context"
	"sort"
	"sync"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Progress Repo
// ------------------------

type progressKey struct {
	guild sharedtypes.GuildID
	user  sharedtypes.DiscordID
}

// FakeProgressRepo keeps rows in memory and records every call.
type FakeProgressRepo struct {
	mu    sync.Mutex
	trace []string
	rows  map[progressKey]levelingdb.UserProgress

	SaveProgressFunc func(ctx context.Context, db bun.IDB, progress *levelingdb.UserProgress) error
	TopProgressFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error)
}

func NewFakeProgressRepo() *FakeProgressRepo {
	return &FakeProgressRepo{
		trace: []string{},
		rows:  make(map[progressKey]levelingdb.UserProgress),
	}
}

func (f *FakeProgressRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeProgressRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeProgressRepo) Seed(row levelingdb.UserProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[progressKey{row.GuildID, row.UserID}] = row
}

func (f *FakeProgressRepo) Row(guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (levelingdb.UserProgress, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[progressKey{guildID, userID}]
	return row, ok
}

// --- Repository Interface Implementation ---

func (f *FakeProgressRepo) GetProgress(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*levelingdb.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProgress")
	return f.get(guildID, userID)
}

func (f *FakeProgressRepo) GetProgressForUpdate(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*levelingdb.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProgressForUpdate")
	return f.get(guildID, userID)
}

func (f *FakeProgressRepo) get(guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*levelingdb.UserProgress, error) {
	row, ok := f.rows[progressKey{guildID, userID}]
	if !ok {
		return nil, levelingdb.ErrNotFound
	}
	return &row, nil
}

func (f *FakeProgressRepo) CreateProgress(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username string) (*levelingdb.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProgress")
	key := progressKey{guildID, userID}
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = levelingdb.UserProgress{GuildID: guildID, UserID: userID, Username: username}
	}
	return f.get(guildID, userID)
}

func (f *FakeProgressRepo) SaveProgress(ctx context.Context, db bun.IDB, progress *levelingdb.UserProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveProgress")
	if f.SaveProgressFunc != nil {
		return f.SaveProgressFunc(ctx, db, progress)
	}
	f.rows[progressKey{progress.GuildID, progress.UserID}] = *progress
	return nil
}

func (f *FakeProgressRepo) SetBio(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, username, bio string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetBio")
	key := progressKey{guildID, userID}
	row, ok := f.rows[key]
	if !ok {
		row = levelingdb.UserProgress{GuildID: guildID, UserID: userID, Username: username}
	}
	row.Bio = &bio
	f.rows[key] = row
	return nil
}

func (f *FakeProgressRepo) ListGuildProgress(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) ([]levelingdb.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListGuildProgress")
	var out []levelingdb.UserProgress
	for k, row := range f.rows {
		if k.guild == guildID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *FakeProgressRepo) TopProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]levelingdb.UserProgress, error) {
	f.mu.Lock()
	f.record("TopProgress")
	fn := f.TopProgressFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, db, guildID, limit)
	}
	rows, _ := f.ListGuildProgress(ctx, db, guildID)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Level != rows[j].Level {
			return rows[i].Level > rows[j].Level
		}
		return rows[i].XP > rows[j].XP
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *FakeProgressRepo) DeleteGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteGuild")
	var n int64
	for k := range f.rows {
		if k.guild == guildID {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

var _ levelingdb.Repository = (*FakeProgressRepo)(nil)
