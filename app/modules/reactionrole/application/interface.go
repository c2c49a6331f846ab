package reactionroleservice

import (
	"context"

	reactionroledomain "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service defines the reaction-role operations.
type Service interface {
	// StartConfigure runs the interactive setup in the background and
	// returns immediately. It fails once the service is closed.
	StartConfigure(ctx context.Context, req ConfigureRequest) error
	// Configure runs the interactive setup to completion.
	Configure(ctx context.Context, req ConfigureRequest) (ConfigureResult, error)

	OnReactionAdd(ctx context.Context, ev ReactionEvent) (ReactionOutcome, error)
	OnReactionRemove(ctx context.Context, ev ReactionEvent) (ReactionOutcome, error)

	// Rebuild reloads the whole cache and returns the number of messages.
	Rebuild(ctx context.Context) (int, error)
	// RefreshGuild reloads one guild and returns its number of messages.
	RefreshGuild(ctx context.Context, guildID sharedtypes.GuildID) (int, error)
	Messages(guildID sharedtypes.GuildID) []reactionroledomain.MessageConfig
	PurgeGuild(ctx context.Context, guildID sharedtypes.GuildID) (int64, error)

	// Close cancels running setups and waits for them.
	Close()
}

// EventPublisher emits events from work that runs outside a message handler.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, payload any) error
}
