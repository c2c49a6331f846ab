// Package guildevents holds the topics owned by the guild module.
package guildevents

import "github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"

const (
	// GuildConfigDeletedV1 announces that a guild was removed. Every module
	// purges its rows and cache entries for the guild.
	GuildConfigDeletedV1 = "guild.config.deleted.v1"

	// AuditRequestedV1 asks for an entry in the guild's logging channel.
	AuditRequestedV1 = "guild.audit.requested.v1"
)

// GuildConfigDeletedPayloadV1 identifies the removed guild.
type GuildConfigDeletedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// AuditRequestedPayloadV1 is one logging-channel entry.
type AuditRequestedPayloadV1 struct {
	GuildID     sharedtypes.GuildID `json:"guild_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color,omitempty"`
}
