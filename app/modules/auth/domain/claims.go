// Package authdomain holds the identity carried by dashboard tokens.
package authdomain

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// GuildAccess is one guild the user may open in the dashboard.
type GuildAccess struct {
	GuildID sharedtypes.GuildID `json:"id"`
	Admin   bool                `json:"admin,omitempty"`
}

// Claims is the decoded dashboard token.
type Claims struct {
	UserID    sharedtypes.DiscordID `json:"user_id"`
	Username  string                `json:"username"`
	Guilds    []GuildAccess         `json:"guilds"`
	ExpiresAt time.Time             `json:"expires_at"`
	IssuedAt  time.Time             `json:"issued_at"`
}

func (c *Claims) access(guildID sharedtypes.GuildID) (GuildAccess, bool) {
	if c == nil {
		return GuildAccess{}, false
	}
	for _, g := range c.Guilds {
		if g.GuildID == guildID {
			return g, true
		}
	}
	return GuildAccess{}, false
}

// CanView reports whether the user is a member of guildID.
func (c *Claims) CanView(guildID sharedtypes.GuildID) bool {
	_, ok := c.access(guildID)
	return ok
}

// CanManage reports whether the user administers guildID.
func (c *Claims) CanManage(guildID sharedtypes.GuildID) bool {
	g, ok := c.access(guildID)
	return ok && g.Admin
}
