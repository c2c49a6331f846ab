package authservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"
)

type fakeDirectory map[sharedtypes.GuildID]bool

func (f fakeDirectory) HasGuild(id sharedtypes.GuildID) bool { return f[id] }

// fakeDiscord serves the token endpoint and the two identity calls.
func fakeDiscord(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(discordUser{ID: "u1", Username: "usagi", GlobalName: "Sailor Moon"})
	})
	mux.HandleFunc("GET /users/@me/guilds", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]discordGuild{
			{ID: "owned", Owner: true, Permissions: "0"},
			{ID: "managed", Permissions: "32"},
			{ID: "admin", Permissions: "8"},
			{ID: "member", Permissions: "1024"},
			{ID: "bot-absent", Owner: true, Permissions: "8"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, srv *httptest.Server) *AuthService {
	t.Helper()
	dir := fakeDirectory{"owned": true, "managed": true, "admin": true, "member": true}
	return NewAuthService(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://dash.example/api/auth/callback",
		TokenTTL:     time.Hour,
		APIBase:      srv.URL,
		Endpoint:     &oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams},
	}, authjwt.NewProvider("test-secret-at-least-32-chars-long!!"), dir, slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"))
}

func TestLoginURL(t *testing.T) {
	svc := newService(t, fakeDiscord(t))

	u, err := url.Parse(svc.LoginURL("xyz"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestCompleteLogin(t *testing.T) {
	svc := newService(t, fakeDiscord(t))
	ctx := context.Background()

	t.Run("issues a token scoped to shared guilds", func(t *testing.T) {
		sess, err := svc.CompleteLogin(ctx, "good-code")
		require.NoError(t, err)
		require.NotEmpty(t, sess.Token)

		assert.Equal(t, sharedtypes.DiscordID("u1"), sess.Claims.UserID)
		assert.Equal(t, "Sailor Moon", sess.Claims.Username)
		assert.Equal(t, []authdomain.GuildAccess{
			{GuildID: "owned", Admin: true},
			{GuildID: "managed", Admin: true},
			{GuildID: "admin", Admin: true},
			{GuildID: "member"},
		}, sess.Claims.Guilds)

		claims, err := svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.True(t, claims.CanView("member"))
		assert.False(t, claims.CanManage("member"))
		assert.False(t, claims.CanView("bot-absent"))
	})

	t.Run("rejected code", func(t *testing.T) {
		_, err := svc.CompleteLogin(ctx, "bad-code")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := svc.CompleteLogin(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newService(t, fakeDiscord(t))

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, isAdmin("8"))
	assert.True(t, isAdmin("40"))
	assert.False(t, isAdmin("1024"))
	assert.False(t, isAdmin("junk"))
}
