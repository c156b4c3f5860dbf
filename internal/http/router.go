package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/game-store-service/internal/http/handlers"
	"github.com/preston-bernstein/game-store-service/internal/http/middleware"
	"github.com/preston-bernstein/game-store-service/internal/metrics"
)

// Handlers groups the resource handlers mounted by NewRouter.
type Handlers struct {
	Health *handlers.HealthHandler
	Games  *handlers.GamesHandler
	Genres *handlers.GenresHandler
}

// NewRouter registers HTTP routes and the request middleware chain.
func NewRouter(h Handlers, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(func(next nethttp.Handler) nethttp.Handler {
		return middleware.LoggingMiddleware(logger, recorder, next)
	})
	r.Use(middleware.Recover(logger))
	r.NotFound(handlers.NotFound(logger))
	r.MethodNotAllowed(handlers.MethodNotAllowed(logger))

	if h.Health != nil {
		r.Get("/health", h.Health.Health)
		r.Get("/ready", h.Health.Ready)
	}

	if h.Games != nil {
		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.Games.List)
			r.Post("/", h.Games.Create)
			r.Get("/{id}", h.Games.Get)
			r.Put("/{id}", h.Games.Update)
			r.Delete("/{id}", h.Games.Delete)
		})
	}

	if h.Genres != nil {
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", h.Genres.List)
			r.Post("/", h.Genres.Create)
			r.Get("/{id}", h.Genres.Get)
			r.Put("/{id}", h.Genres.Update)
			r.Delete("/{id}", h.Genres.Delete)
		})
	}

	return r
}
