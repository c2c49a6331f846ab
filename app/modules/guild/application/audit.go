package guildservice

import (
	"context"
	"fmt"
	"time"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const defaultAuditColor = 0x3498DB

// AuditEntry is one logging-channel post.
type AuditEntry struct {
	Title       string
	Description string
	Color       int
}

// PostAudit writes entry to the logging channel. It reports false when the
// guild has no logging channel.
func (s *GuildService) PostAudit(ctx context.Context, guildID sharedtypes.GuildID, entry AuditEntry) (bool, error) {
	channel, err := s.channel(ctx, guildID, guilddb.ChannelLogging)
	if err != nil || channel == "" {
		return false, err
	}

	color := entry.Color
	if color == 0 {
		color = defaultAuditColor
	}
	now := time.Now().UTC()
	embed := platform.Embed{
		Title:       entry.Title,
		Description: entry.Description,
		Color:       color,
		Timestamp:   &now,
	}
	if _, err := s.notifier.Send(ctx, channel, platform.Message{Embed: &embed}); err != nil {
		return false, fmt.Errorf("failed to post audit entry: %w", err)
	}
	return true, nil
}
