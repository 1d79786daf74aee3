package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg    Registrar
	mws    []Middleware
	public bool
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterPublic is Register behind the shared per-IP rate limiter.
func RegisterPublic(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws, public: true})
}

// Called once per router from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitRPM,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})

	for _, e := range registry {
		mws := e.mws
		if e.public {
			mws = append([]Middleware{limit}, mws...)
		}
		if len(mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(mws...), d)
	}
}

// adminOnly restricts a route to the allowed networks and hosts.
func adminOnly(d deps.Deps) []Middleware {
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
}
