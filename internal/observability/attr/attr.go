// Package attr provides slog attribute helpers with consistent key names.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

type ctxKey string

// CorrelationIDKey is the context key holding the message correlation id.
const CorrelationIDKey ctxKey = "correlation_id"

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

// Error records err under the "error" key. A nil error renders as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func GuildID(id sharedtypes.GuildID) slog.Attr { return slog.String("guild_id", string(id)) }

func UserID(id sharedtypes.DiscordID) slog.Attr { return slog.String("user_id", string(id)) }

func RoleID(id sharedtypes.RoleID) slog.Attr { return slog.String("role_id", string(id)) }

func ChannelID(id sharedtypes.ChannelID) slog.Attr { return slog.String("channel_id", string(id)) }

func MessageID(id sharedtypes.MessageID) slog.Attr { return slog.String("message_id", string(id)) }

// WithCorrelationID stores id on ctx for later extraction.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// ExtractCorrelationID returns the correlation id attribute carried by ctx.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}
