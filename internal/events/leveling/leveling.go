// Package levelingevents holds the topics owned by the leveling module.
package levelingevents

import "github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"

const (
	LevelUpV1 = "leveling.level.up.v1"
)

// LevelUpPayloadV1 reports that a member gained a level. ChannelID is the
// channel of the message that triggered it.
type LevelUpPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	UserID      sharedtypes.DiscordID `json:"user_id"`
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	DisplayName string                `json:"display_name"`
	NewLevel    int                   `json:"new_level"`
}
