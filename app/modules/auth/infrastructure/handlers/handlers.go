package authhandlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authservice "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

const (
	// SessionCookie carries the dashboard JWT.
	SessionCookie = "senshi_session"
	stateCookie   = "senshi_oauth_state"
	stateTTL      = 10 * time.Minute
)

// AuthHandlers serves the dashboard login endpoints.
type AuthHandlers struct {
	service       authservice.Service
	logger        *slog.Logger
	tracer        trace.Tracer
	secureCookies bool
	// dashboardURL is where a completed login redirects. Empty answers with JSON.
	dashboardURL string
}

// NewAuthHandlers creates a new AuthHandlers.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer, secureCookies bool, dashboardURL string) *AuthHandlers {
	return &AuthHandlers{
		service:       service,
		logger:        logger,
		tracer:        tracer,
		secureCookies: secureCookies,
		dashboardURL:  dashboardURL,
	}
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (h *AuthHandlers) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
}

// HandleLogin redirects to the Discord consent page.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to generate oauth state", attr.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, h.cookie(stateCookie, state, time.Now().Add(stateTTL)))
	http.Redirect(w, r, h.service.LoginURL(state), http.StatusFound)
}

// HandleCallback finishes the Discord login and sets the session cookie.
func (h *AuthHandlers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "auth.HandleCallback")
	defer span.End()

	q := r.URL.Query()
	if q.Get("error") != "" {
		http.Error(w, "login cancelled", http.StatusUnauthorized)
		return
	}
	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != q.Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1})

	sess, err := h.service.CompleteLogin(ctx, q.Get("code"))
	if err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "Dashboard login failed", attr.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, authservice.ErrUnauthorized) || errors.Is(err, apperrors.ErrInvalidInput) {
			status = http.StatusUnauthorized
		}
		http.Error(w, "authentication failed", status)
		return
	}

	http.SetCookie(w, h.cookie(SessionCookie, sess.Token, sess.Claims.ExpiresAt))
	h.logger.InfoContext(ctx, "Dashboard login",
		attr.UserID(sess.Claims.UserID),
		attr.Int("guilds", len(sess.Claims.Guilds)),
	)

	if h.dashboardURL != "" {
		http.Redirect(w, r, h.dashboardURL, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Claims)
}

// HandleLogout clears the session cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the caller's claims.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
