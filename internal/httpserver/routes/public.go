package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/httpserver/handlers"
)

func init() {
	RegisterPublic(registerSearch)
	RegisterPublic(registerMachines)
	RegisterPublic(registerCatalog)
	RegisterPublic(registerAffiliate)
}

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/search", handlers.Search(d))
}

func registerMachines(r chi.Router, d deps.Deps) {
	r.Get("/machines/{id}", handlers.Machine(d))
	r.Get("/compare", handlers.Compare(d))
}

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/brands", handlers.Brands(d))
	r.Get("/statistics", handlers.Statistics(d))
}

func registerAffiliate(r chi.Router, d deps.Deps) {
	r.Get("/affiliate", handlers.Affiliate(d))
}
