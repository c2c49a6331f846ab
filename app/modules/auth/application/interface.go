package authservice

import (
	"context"

	authdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// Service signs dashboard users in through Discord.
type Service interface {
	// LoginURL is the Discord consent page for state.
	LoginURL(state string) string
	// CompleteLogin trades an authorization code for a signed dashboard token.
	CompleteLogin(ctx context.Context, code string) (*Session, error)
	// Authenticate verifies a dashboard token.
	Authenticate(ctx context.Context, token string) (*authdomain.Claims, error)
}

// GuildDirectory reports which guilds the bot is in.
type GuildDirectory interface {
	HasGuild(guildID sharedtypes.GuildID) bool
}

// Session is the result of a completed login.
type Session struct {
	Token  string
	Claims *authdomain.Claims
}
