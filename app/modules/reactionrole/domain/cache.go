package reactionroledomain

import (
	"sync"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// MessageConfig is one published reaction-role message.
type MessageConfig struct {
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	MessageID sharedtypes.MessageID `json:"message_id"`
	Pairs     []Pair                `json:"pairs"`
}

func (m MessageConfig) clone() MessageConfig {
	m.Pairs = append([]Pair(nil), m.Pairs...)
	return m
}

// Cache maps guilds to their reaction-role messages. Reads return copies.
type Cache struct {
	mu     sync.RWMutex
	guilds map[sharedtypes.GuildID][]MessageConfig
}

func NewCache() *Cache {
	return &Cache{guilds: make(map[sharedtypes.GuildID][]MessageConfig)}
}

// Rebuild replaces the whole cache.
func (c *Cache) Rebuild(all map[sharedtypes.GuildID][]MessageConfig) {
	next := make(map[sharedtypes.GuildID][]MessageConfig, len(all))
	for g, msgs := range all {
		next[g] = cloneAll(msgs)
	}
	c.mu.Lock()
	c.guilds = next
	c.mu.Unlock()
}

// ReplaceGuild replaces one guild's messages.
func (c *Cache) ReplaceGuild(guildID sharedtypes.GuildID, msgs []MessageConfig) {
	cloned := cloneAll(msgs)
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(cloned) == 0 {
		delete(c.guilds, guildID)
		return
	}
	c.guilds[guildID] = cloned
}

// Append adds a newly configured message.
func (c *Cache) Append(guildID sharedtypes.GuildID, msg MessageConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guilds[guildID] = append(c.guilds[guildID], msg.clone())
}

// EvictGuild drops a guild.
func (c *Cache) EvictGuild(guildID sharedtypes.GuildID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.guilds, guildID)
}

// Lookup finds the role bound to emoji on a message.
func (c *Cache) Lookup(guildID sharedtypes.GuildID, messageID sharedtypes.MessageID, emoji string) (sharedtypes.RoleID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, msg := range c.guilds[guildID] {
		if msg.MessageID != messageID {
			continue
		}
		for _, p := range msg.Pairs {
			if p.Emoji == emoji {
				return p.RoleID, true
			}
		}
	}
	return "", false
}

// Snapshot returns a copy of the guild's messages.
func (c *Cache) Snapshot(guildID sharedtypes.GuildID) []MessageConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.guilds[guildID])
}

// Len returns the number of cached messages across all guilds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, msgs := range c.guilds {
		n += len(msgs)
	}
	return n
}

func cloneAll(msgs []MessageConfig) []MessageConfig {
	if msgs == nil {
		return nil
	}
	out := make([]MessageConfig, len(msgs))
	for i, m := range msgs {
		out[i] = m.clone()
	}
	return out
}
