package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/durable/internal/catalog"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/index"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/view"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts   []string // Host headers allowed on admin routes
	AllowedCIDRS   []string // networks allowed on admin routes
	AllowedOrigins []string // CORS origins for the public API
	TrustProxy     bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst int      // per client IP on public routes
	RateLimitRPM   int      // 0 disables the limiter
	RequestTimeout time.Duration

	Catalog     *catalog.Client
	Interpreter *domain.Interpreter
	Resolver    *domain.AffiliateResolver
	Presenter   *view.Presenter
	BrandIndex  *index.BrandIndex
	Locale      string // default marketplace locale

	CacheBackend  string        // "memory" | "redis"
	RedisClient   *redis.Client // nil with the memory backend
	ReloadTrigger chan struct{} // manual brand index reload
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
