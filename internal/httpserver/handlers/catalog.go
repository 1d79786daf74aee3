package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
)

type brandsResponse struct {
	Brands []string `json:"brands"`
}

// Brands lists the catalog brands. Navigation must not break, so an
// unreachable catalog yields an empty list.
func Brands(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		writeJSON(w, http.StatusOK, brandsResponse{Brands: d.Catalog.Brands(r.Context())})
	}
}

// Statistics passes the catalog aggregate document through.
func Statistics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Catalog.Statistics(r.Context())
		if err != nil {
			writeCatalogError(w, d.Logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(stats)
	}
}
