package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per inbound request (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog
	CatalogURL         string        // ex: "http://localhost:8000"
	CatalogTimeout     time.Duration // per upstream call (ex: 8s)
	CacheBackend       string        // "memory" | "redis"
	CacheFreshness     time.Duration // max age of a served cached response (ex: 5m)
	CompareConcurrency int           // parallel detail lookups for /compare
	CompareMax         int           // max products per comparison

	// Affiliate
	AffiliateTag      string // ex: "lebrugere-21"
	MarketplaceLocale string // "fr" | "de" | "it" | "es" | "uk"

	// Brands
	BrandsFile          string        // seed yaml (default: $XDG_CONFIG_HOME/durable/brands.yaml)
	BrandReloadInterval time.Duration // ex: 1h

	// Redis, only read when CacheBackend == "redis"
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Access restrictions
	AllowedHosts   []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict admin routes to these networks
	AllowedOrigins []string // CORS origins for the public API, empty = none
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateLimitBurst int      // per client IP
	RateLimitRPM   int      // sustained requests per minute per client IP, 0 = unlimited
}

// Load reads the configuration from the environment, after merging an
// optional .env file (DURABLE_ENV_FILE, default ".env"). It panics on
// invalid values.
func Load() *Config {
	loadDotEnv(getenv("DURABLE_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DURABLE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DURABLE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("DURABLE_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("DURABLE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DURABLE_PRETTY_LOG", true),

		// Catalog
		CatalogURL:         getenv("DURABLE_CATALOG_URL", "http://localhost:8000"),
		CatalogTimeout:     mustDuration("DURABLE_CATALOG_TIMEOUT", 8*time.Second),
		CacheBackend:       strings.ToLower(getenv("DURABLE_CACHE_BACKEND", CacheMemory)),
		CacheFreshness:     mustDuration("DURABLE_CACHE_FRESHNESS", 5*time.Minute),
		CompareConcurrency: getenvInt("DURABLE_COMPARE_CONCURRENCY", 4),
		CompareMax:         getenvInt("DURABLE_COMPARE_MAX", 4),

		// Affiliate
		AffiliateTag:      getenv("DURABLE_AFFILIATE_TAG", "lebrugere-21"),
		MarketplaceLocale: strings.ToLower(getenv("DURABLE_MARKETPLACE_LOCALE", "fr")),

		// Brands
		BrandsFile:          getenv("DURABLE_BRANDS_FILE", DefaultBrandsFile()),
		BrandReloadInterval: mustDuration("DURABLE_BRAND_RELOAD_INTERVAL", time.Hour),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("DURABLE_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("DURABLE_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("DURABLE_ALLOWED_ORIGINS", "")),
		TrustProxy:     mustBool("DURABLE_TRUST_PROXY", false),
		RateLimitBurst: getenvInt("DURABLE_RATE_LIMIT_BURST", 30),
		RateLimitRPM:   getenvInt("DURABLE_RATE_LIMIT_PER_MIN", 120),
	}

	if cfg.CacheBackend == CacheRedis {
		cfg.RedisAddr = requireEnv("DURABLE_REDIS_ADDR")
		cfg.RedisUser = getenv("DURABLE_REDIS_USERNAME", "")
		cfg.RedisPassword = getenv("DURABLE_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("DURABLE_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	u, err := url.Parse(c.CatalogURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("DURABLE_CATALOG_URL must be an absolute http(s) url, got %q", c.CatalogURL)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("DURABLE_CACHE_BACKEND must be %q or %q, got %q", CacheMemory, CacheRedis, c.CacheBackend)
	}
	if c.CacheFreshness <= 0 {
		return fmt.Errorf("DURABLE_CACHE_FRESHNESS must be > 0, got %v", c.CacheFreshness)
	}
	if c.BrandReloadInterval <= 0 {
		return fmt.Errorf("DURABLE_BRAND_RELOAD_INTERVAL must be > 0, got %v", c.BrandReloadInterval)
	}
	if c.CompareConcurrency < 1 || c.CompareMax < 1 {
		return fmt.Errorf("compare concurrency and max must be >= 1, got %d/%d", c.CompareConcurrency, c.CompareMax)
	}
	for _, cidr := range c.AllowedCIDRS {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return fmt.Errorf("DURABLE_ALLOWED_CIDRS: invalid entry %q", cidr)
		}
	}
	return nil
}

// DefaultBrandsFile is the per-user brand seed location.
func DefaultBrandsFile() string {
	return filepath.Join(xdg.ConfigHome, "durable", "brands.yaml")
}

// loadDotEnv merges path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: cannot read env file %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseAllowedIPs accepts CIDRs and bare addresses, the latter as /32 or /128.
// Example: "10.0.0.0/8, 192.168.1.10" -> ["10.0.0.0/8", "192.168.1.10/32"]
func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	out := make([]string, 0, 4)
	for _, entry := range splitAndTrim(allowed) {
		if !strings.Contains(entry, "/") {
			if addr, err := netip.ParseAddr(entry); err == nil {
				entry = netip.PrefixFrom(addr, addr.BitLen()).String()
			}
		}
		out = append(out, entry)
	}
	return out
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
