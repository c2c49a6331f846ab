// Package moderationevents holds the topics owned by the moderation module.
package moderationevents

import "github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"

const (
	MuteExpiredV1 = "moderation.mute.expired.v1"
)

// MuteExpiredPayloadV1 reports that a scheduled mute revocation fired.
type MuteExpiredPayloadV1 struct {
	ActionID string                `json:"action_id"`
	GuildID  sharedtypes.GuildID   `json:"guild_id"`
	UserID   sharedtypes.DiscordID `json:"user_id"`
	RoleID   sharedtypes.RoleID    `json:"role_id"`
	// Removed is false when the member had already lost the role or left.
	Removed bool `json:"removed"`
}
