// Package http wires the API routes.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cutru-ai/internal/handlers"
	"cutru-ai/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Assistant handlers.Assistant
	Ingester  handlers.Ingester
	Queries   storage.QueryStore
}

// NewRouter creates the HTTP router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	r.Get("/healthz", handlers.HealthHandler)

	r.Method(http.MethodGet, "/", handlers.NewPageHandler())

	r.Route("/api", func(r chi.Router) {
		chat := handlers.NewChatHandler(deps.Assistant)
		r.Method(http.MethodPost, "/chat", chat)
		r.Method(http.MethodPost, "/chat/stream", chat)
		if deps.Ingester != nil {
			r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.Ingester))
		}
		if deps.Queries != nil {
			r.Method(http.MethodGet, "/sessions/{sessionID}/queries", handlers.NewSessionHandler(deps.Queries))
		}
	})

	return r
}
