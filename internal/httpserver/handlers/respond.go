package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/durable/internal/catalog"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/view"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
	Detail    string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Retryable: status == http.StatusServiceUnavailable,
		Detail:    detail,
	})
}

// writeCatalogError maps catalog failures to HTTP statuses.
func writeCatalogError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, catalog.ErrTooManyIDs):
		writeError(w, http.StatusBadRequest, "too_many_ids", err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", "")
	default:
		log.Error("unexpected catalog error", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

// presenterFor honours a ?locale= override, else uses the shared presenter.
func presenterFor(r *http.Request, d deps.Deps) *view.Presenter {
	if r.URL.Query().Get("locale") == "" && d.Presenter != nil {
		return d.Presenter
	}
	return view.NewPresenter(d.Resolver, localeOf(r, d.Locale))
}

// localeOf returns the ?locale= override, or fallback.
func localeOf(r *http.Request, fallback string) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	return fallback
}
