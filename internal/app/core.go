package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/durable/internal/catalog"
	"github.com/MrSnakeDoc/durable/internal/config"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/index"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/redis"
	"github.com/MrSnakeDoc/durable/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/durable/internal/store/redis"
	"github.com/MrSnakeDoc/durable/internal/utils"
	"github.com/MrSnakeDoc/durable/internal/view"
)

// Core is the search pipeline shared by the server and the CLI commands.
type Core struct {
	Catalog     *catalog.Client
	Interpreter *domain.Interpreter
	Resolver    *domain.AffiliateResolver
	Presenter   *view.Presenter
	Brands      *index.BrandIndex

	redisClient *goredis.Client    // nil with the memory backend
	store       *redisstore.Store // nil with the memory backend
	log         logger.Logger
}

// NewCore connects the cache backend and builds the catalog client.
// With the redis backend, an unreachable server is fatal.
func NewCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	c := &Core{
		Brands: index.NewBrandIndex(),
		log:    log,
	}

	var cache catalog.Cache
	if cfg.CacheBackend == config.CacheRedis {
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			Username:       cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("connect cache backend: %w", err)
		}
		c.redisClient = client
		c.store = redisstore.NewStore(client, redisstore.DefaultEntryTTL)
		cache = c.store
	} else {
		cache = catalog.NewMemoryCache()
	}

	client, err := catalog.New(catalog.Options{
		BaseURL:            cfg.CatalogURL,
		Timeout:            cfg.CatalogTimeout,
		Freshness:          cfg.CacheFreshness,
		Cache:              cache,
		Logger:             log.Named("catalog"),
		CompareConcurrency: cfg.CompareConcurrency,
		CompareMax:         cfg.CompareMax,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Catalog = client
	c.Interpreter = domain.NewInterpreter(c.Brands)
	c.Resolver = domain.NewAffiliateResolver(cfg.AffiliateTag, cfg.MarketplaceLocale)
	c.Presenter = view.NewPresenter(c.Resolver, cfg.MarketplaceLocale)
	return c, nil
}

// BrandStore returns the persistent brand store, or nil without redis.
func (c *Core) BrandStore() scheduler.BrandStore {
	if c.store == nil {
		return nil
	}
	return c.store
}

// NewBrandReloader builds the reloader feeding this core's brand index.
func (c *Core) NewBrandReloader(cfg *config.Config, trigger chan struct{}) *scheduler.BrandReloader {
	return scheduler.NewBrandReloader(
		cfg.BrandsFile,
		c.Catalog,
		c.BrandStore(),
		c.Brands,
		c.log.Named("brands"),
		cfg.BrandReloadInterval,
		trigger,
	)
}

// LoadBrands fills the brand index once, without starting a refresh loop.
func (c *Core) LoadBrands(ctx context.Context, cfg *config.Config) error {
	return c.NewBrandReloader(cfg, nil).Reload(ctx)
}

// Close releases the cache backend connection.
func (c *Core) Close() {
	if c.redisClient != nil {
		utils.CloseLogged(c.redisClient, "redis", c.log)
	}
}
