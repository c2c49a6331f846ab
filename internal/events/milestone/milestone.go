// Package milestoneevents holds the topics owned by the milestone module.
package milestoneevents

import "github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"

const (
	// GapFillRequestedV1 asks for a silent backfill of the milestone roles a
	// member has earned but does not hold.
	GapFillRequestedV1 = "milestone.gapfill.requested.v1"
)

// GapFillRequestedPayloadV1 carries the member's stored level.
type GapFillRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Level   int                   `json:"level"`
}
