package levelingdomain

import (
	"sync"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// DefaultCooldown is the minimum time between two XP awards for one user.
const DefaultCooldown = 60 * time.Second

// Cooldown tracks the last award per user across every guild.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[sharedtypes.DiscordID]time.Time
}

// NewCooldown creates a cooldown of window. A nil clock uses time.Now.
func NewCooldown(window time.Duration, clock func() time.Time) *Cooldown {
	if clock == nil {
		clock = time.Now
	}
	if window <= 0 {
		window = DefaultCooldown
	}
	return &Cooldown{
		window: window,
		now:    clock,
		last:   make(map[sharedtypes.DiscordID]time.Time),
	}
}

// Allow reports whether user may earn XP now. A true result stamps the user
// before returning, so concurrent callers for the same user see the stamp.
func (c *Cooldown) Allow(user sharedtypes.DiscordID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.last[user]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[user] = now
	return true
}

// Sweep forgets users whose window has passed.
func (c *Cooldown) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for user, last := range c.last {
		if now.Sub(last) >= c.window {
			delete(c.last, user)
			removed++
		}
	}
	return removed
}
