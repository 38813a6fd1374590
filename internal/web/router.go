package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the browser UI routes
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, requestLogger(app.Log))

	r.Get("/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(withSession(app.Sessions))

		r.Get("/", app.Index)
		r.Get("/state", app.State)
		r.Get("/blob/{id}", app.Blob)

		r.Post("/image", app.SetImage)
		r.Post("/prompt", app.SetPrompt)
		r.Post("/preset", app.SetPreset)
		r.Post("/generate", app.Generate)
	})

	return r
}
