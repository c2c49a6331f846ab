package leaderboardhandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// Register mounts the dashboard API on r. auth authenticates the caller and
// guild(manage) scopes a route to the {guildID} parameter. Nil middleware is skipped.
func Register(r chi.Router, h *LeaderboardHandlers, auth Middleware, guild func(manage bool) Middleware) {
	scoped := func(manage bool) chi.Middlewares {
		var mw chi.Middlewares
		if auth != nil {
			mw = append(mw, auth)
		}
		if guild != nil {
			mw = append(mw, guild(manage))
		}
		return mw
	}

	r.Get("/api/level-curve.png", h.HandleLevelCurve)

	r.Route("/api/guilds/{guildID}", func(r chi.Router) {
		r.With(scoped(false)...).Get("/leaderboard", h.HandleStandings)
		r.With(scoped(false)...).Get("/leaderboard.xlsx", h.HandleExport)
		r.With(scoped(false)...).Get("/leaderboard.png", h.HandleChart)
		r.With(scoped(true)...).Post("/milestones/import", h.HandleImportMilestones)
	})
}
