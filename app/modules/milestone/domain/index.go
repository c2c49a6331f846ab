// Package milestonedomain holds the per-guild milestone index and the
// spreadsheet format used to bulk import milestones.
package milestonedomain

import (
	"context"
	"sort"
	"sync"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Binding maps a level to the role granted on reaching it.
type Binding struct {
	Level  int                `json:"level"`
	RoleID sharedtypes.RoleID `json:"role_id"`
}

// Loader reads every binding of a guild from storage.
type Loader func(ctx context.Context, guildID sharedtypes.GuildID) ([]Binding, error)

// Index caches each guild's bindings sorted by level. It is filled on first
// use and dropped by Invalidate; storage stays the source of truth.
type Index struct {
	mu     sync.RWMutex
	load   Loader
	guilds map[sharedtypes.GuildID][]Binding
	gen    map[sharedtypes.GuildID]uint64
}

func NewIndex(load Loader) *Index {
	return &Index{
		load:   load,
		guilds: make(map[sharedtypes.GuildID][]Binding),
		gen:    make(map[sharedtypes.GuildID]uint64),
	}
}

// All returns a copy of the guild's bindings in ascending level order.
func (i *Index) All(ctx context.Context, guildID sharedtypes.GuildID) ([]Binding, error) {
	i.mu.RLock()
	cached, ok := i.guilds[guildID]
	gen := i.gen[guildID]
	i.mu.RUnlock()
	if ok {
		return append([]Binding(nil), cached...), nil
	}

	loaded, err := i.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	sorted := append([]Binding(nil), loaded...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Level < sorted[b].Level })

	i.mu.Lock()
	// An Invalidate during the load makes this result stale.
	if i.gen[guildID] == gen {
		i.guilds[guildID] = sorted
	}
	i.mu.Unlock()

	return append([]Binding(nil), sorted...), nil
}

// RewardsUpTo returns the bindings with level <= level, ascending.
func (i *Index) RewardsUpTo(ctx context.Context, guildID sharedtypes.GuildID, level int) ([]Binding, error) {
	all, err := i.All(ctx, guildID)
	if err != nil {
		return nil, err
	}
	n := sort.Search(len(all), func(k int) bool { return all[k].Level > level })
	return all[:n], nil
}

// IsMilestoneLevel reports whether level has a binding.
func (i *Index) IsMilestoneLevel(ctx context.Context, guildID sharedtypes.GuildID, level int) (bool, error) {
	all, err := i.All(ctx, guildID)
	if err != nil {
		return false, err
	}
	k := sort.Search(len(all), func(k int) bool { return all[k].Level >= level })
	return k < len(all) && all[k].Level == level, nil
}

// Invalidate drops the guild's cached bindings.
func (i *Index) Invalidate(guildID sharedtypes.GuildID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.guilds, guildID)
	i.gen[guildID]++
}

// Rebuild reloads the guild from storage.
func (i *Index) Rebuild(ctx context.Context, guildID sharedtypes.GuildID) error {
	i.Invalidate(guildID)
	_, err := i.All(ctx, guildID)
	return err
}

// Len returns the number of cached guilds.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.guilds)
}
