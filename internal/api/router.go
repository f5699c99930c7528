package api

import (
	"net/http"
	"time"

	// Registers the generated Swagger docs.
	_ "capture-gpt/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates the chi router with all application routes.
func NewRouter(chatHandler *ChatHandler, modelHandler *ModelHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Request/response routes. A blocking send waits for the completion
		// API, so the timeout has to exceed the client's own deadline.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(90 * time.Second))

			r.Get("/state", chatHandler.GetState)

			r.Get("/sessions", chatHandler.ListSessions)
			r.Post("/sessions", chatHandler.CreateSession)
			r.Get("/sessions/groups", chatHandler.ListSessionGroups)
			r.Get("/sessions/{sessionID}", chatHandler.GetSession)
			r.Post("/sessions/{sessionID}/select", chatHandler.SelectSession)
			r.Put("/sessions/{sessionID}/title", chatHandler.UpdateSessionTitle)
			r.Delete("/sessions/{sessionID}", chatHandler.DeleteSession)

			r.Post("/messages", chatHandler.SendMessage)

			r.Get("/presets", chatHandler.ListPresets)
			r.Post("/presets/{presetID}/select", chatHandler.SelectPreset)
			r.Delete("/presets/selected", chatHandler.ClearPreset)

			r.Get("/settings", chatHandler.GetSettings)
			r.Put("/settings", chatHandler.UpdateSettings)

			r.Get("/models", modelHandler.HandleListModels)
		})

		// Streaming routes hold the connection open and must not time out.
		r.Group(func(r chi.Router) {
			r.Post("/messages/stream", chatHandler.StreamMessage)
		})
	})

	return r
}
