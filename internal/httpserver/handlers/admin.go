package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/utils"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload asks the brand reloader for an immediate refresh.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, d.TrustProxy)

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual brand reload triggered via endpoint", logger.String("client_ip", ip))
			writeJSON(w, http.StatusAccepted, reloadResponse{Triggered: true, Message: "brand reload triggered"})
		default:
			d.Logger.Warn("brand reload already pending", logger.String("client_ip", ip))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Message: "brand reload already pending, please wait"})
		}
	}
}

type flushResponse struct {
	Flushed    bool   `json:"flushed"`
	Generation uint64 `json:"generation"`
}

// FlushCache drops every cached catalog response.
func FlushCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Catalog.ClearCache(r.Context()); err != nil {
			d.Logger.Error("cache flush failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "cache_flush_failed", err.Error())
			return
		}
		d.Logger.Info("catalog cache flushed via endpoint",
			logger.String("client_ip", utils.ClientIP(r, d.TrustProxy)))
		writeJSON(w, http.StatusOK, flushResponse{Flushed: true, Generation: d.Catalog.Stats().Generation})
	}
}
