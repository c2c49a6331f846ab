// Package reactionroleevents holds the topics owned by the reaction-role module.
package reactionroleevents

import "github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"

const (
	// MessageConfiguredV1 announces a newly published and persisted reaction-role message.
	MessageConfiguredV1 = "reactionrole.message.configured.v1"
)

// MessageConfiguredPayloadV1 describes the configured message.
type MessageConfiguredPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	MessageID sharedtypes.MessageID `json:"message_id"`
	Pairs     int                   `json:"pairs"`
}
