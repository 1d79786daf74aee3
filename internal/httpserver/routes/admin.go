package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/httpserver/handlers"
)

func init() {
	Register(registerProbes)
	Register(registerAdmin)
}

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
}

func registerAdmin(r chi.Router, d deps.Deps) {
	admin := r.With(adminOnly(d)...)
	admin.Get("/infra", handlers.Infra(d))
	admin.Post("/reload", handlers.Reload(d))
	admin.Post("/cache/flush", handlers.FlushCache(d))
}
