package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/view"
)

// Machine returns the card of one product.
func Machine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusNotFound, "not_found", "invalid product id")
			return
		}

		p, err := d.Catalog.ProductDetails(r.Context(), id)
		if err != nil {
			writeCatalogError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, presenterFor(r, d).Card(*p))
	}
}

type compareResponse struct {
	Cards []view.Card `json:"cards"`
}

// Compare returns the cards of ?ids=1,2,3 in the order given.
func Compare(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []int64
		for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_id", part)
				return
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			writeError(w, http.StatusBadRequest, "missing_ids", "")
			return
		}

		products, err := d.Catalog.Compare(r.Context(), ids)
		if err != nil {
			writeCatalogError(w, d.Logger, err)
			return
		}

		presenter := presenterFor(r, d)
		out := compareResponse{Cards: make([]view.Card, 0, len(products))}
		for _, p := range products {
			out.Cards = append(out.Cards, presenter.Card(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
