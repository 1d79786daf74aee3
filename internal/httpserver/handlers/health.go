package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/durable/internal/catalog"
	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
)

const probeTimeout = 2 * time.Second

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

// Healthz is the liveness probe. It never touches the catalog.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
		})
	}
}

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz reports ready once the catalog answers and the brand index is loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		switch {
		case d.Catalog.Ping(ctx) != nil:
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "catalog unreachable"})
		case d.BrandIndex.Count() == 0:
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "brand index empty"})
		default:
			writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
		}
	}
}

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
	Cache      catalog.Stats              `json:"cache"`
}

// Infra reports the state of every collaborator.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"catalog": checkCatalog(ctx, d),
			"cache":   checkCache(ctx, d),
			"brands":  checkBrands(d),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
			Cache:      d.Catalog.Stats(),
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if !components["catalog"].OK {
		return "critical" // nothing can be searched
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "nominal"
}

func checkCatalog(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Catalog.Ping(ctx); err != nil {
		return componentStatus{OK: false, Impact: "search-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: d.CacheBackend}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.CacheBackend,
			Impact: "every-request-hits-catalog",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.CacheBackend}
}

func checkBrands(d deps.Deps) componentStatus {
	count := d.BrandIndex.Count()
	last := "never"
	if t := d.BrandIndex.GetLastReload(); !t.IsZero() {
		last = t.Format(time.RFC3339)
	}
	st := componentStatus{OK: count > 0, Loaded: &count, LastReload: last}
	if count == 0 {
		st.Impact = "brand-detection-disabled"
	}
	return st
}
