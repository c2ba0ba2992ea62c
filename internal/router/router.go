// Package router sets up the HTTP routes and middleware chain for the
// postdeck API. Every route lives under /api except the health check.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"postdeck/internal/handlers"
	"postdeck/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// Health check — no rate limit concerns, plain JSON.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", api.Generate)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.ListPosts)
			r.Post("/reload", api.ReloadPosts)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.GetPost)
				r.Patch("/", api.UpdatePost)
				r.Delete("/", api.DeletePost)

				r.Post("/approve", api.ApprovePost)
				r.Post("/reject", api.RejectPost)
				r.Post("/publish", api.PublishPost)

				r.Post("/schedule", api.SchedulePost)
				r.Delete("/schedule", api.RemoveSchedule)

				r.Post("/image-prompts", api.GenerateImagePrompts)
				r.Post("/image-prompts/select", api.SelectImagePrompt)
				r.Post("/image", api.GenerateImage)
				r.Put("/image", api.UpdatePostImage)

				r.Get("/preview", api.PreviewPost)
			})
		})

		r.Get("/notifications", api.ListNotifications)

		r.Get("/network", api.NetworkStatus)
		r.Post("/network/connect", api.SetNetworkConnected)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
