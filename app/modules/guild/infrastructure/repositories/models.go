package guilddb

import (
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// ServerConfig is a guild's channel and mute-role configuration.
type ServerConfig struct {
	bun.BaseModel    `bun:"table:server_configs,alias:sc"`
	GuildID          sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(20)"`
	GuildName        string                `bun:"guild_name,notnull,default:''"`
	WelcomeChannelID sharedtypes.ChannelID `bun:"welcome_channel_id,nullzero,type:varchar(20)"`
	LoggingChannelID sharedtypes.ChannelID `bun:"logging_channel_id,nullzero,type:varchar(20)"`
	RankUpChannelID  sharedtypes.ChannelID `bun:"rank_up_channel_id,nullzero,type:varchar(20)"`
	MuteRoleLevel1ID sharedtypes.RoleID    `bun:"mute_role_level_1_id,nullzero,type:varchar(20)"`
	MuteRoleLevel2ID sharedtypes.RoleID    `bun:"mute_role_level_2_id,nullzero,type:varchar(20)"`
	CreatedAt        time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ChannelKind names one of the configurable channels.
type ChannelKind string

const (
	ChannelWelcome ChannelKind = "welcome"
	ChannelLogging ChannelKind = "logging"
	ChannelRankUp  ChannelKind = "rank_up"
)

// column returns the server_configs column storing kind.
func (k ChannelKind) column() (string, bool) {
	switch k {
	case ChannelWelcome:
		return "welcome_channel_id", true
	case ChannelLogging:
		return "logging_channel_id", true
	case ChannelRankUp:
		return "rank_up_channel_id", true
	default:
		return "", false
	}
}

// Channel returns the channel configured for kind, or "".
func (c *ServerConfig) Channel(kind ChannelKind) sharedtypes.ChannelID {
	switch kind {
	case ChannelWelcome:
		return c.WelcomeChannelID
	case ChannelLogging:
		return c.LoggingChannelID
	case ChannelRankUp:
		return c.RankUpChannelID
	default:
		return ""
	}
}

// MuteRole returns the mute role configured for level 1 or 2, or "".
func (c *ServerConfig) MuteRole(level int) sharedtypes.RoleID {
	switch level {
	case 1:
		return c.MuteRoleLevel1ID
	case 2:
		return c.MuteRoleLevel2ID
	default:
		return ""
	}
}
