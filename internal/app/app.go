package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/durable/internal/config"
	"github.com/MrSnakeDoc/durable/internal/httpserver"
	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/scheduler"
	"github.com/MrSnakeDoc/durable/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	core     *Core
	server   *httpserver.Server
	reloader *scheduler.BrandReloader
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	core, err := NewCore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	// Brand detection works before the catalog answers when a previous run
	// persisted the catalog brand list.
	if store := core.BrandStore(); store != nil {
		syncer := scheduler.NewBrandSyncer(store, core.Brands, loggerClient.Named("brands"))
		if err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to restore catalog brands, waiting for first reload",
				logger.Error(err))
		}
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := core.NewBrandReloader(cfg, reloadTrigger)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		RateLimitBurst: cfg.RateLimitBurst,
		RateLimitRPM:   cfg.RateLimitRPM,
		RequestTimeout: cfg.RequestTimeout,
		Catalog:        core.Catalog,
		Interpreter:    core.Interpreter,
		Resolver:       core.Resolver,
		Presenter:      core.Presenter,
		BrandIndex:     core.Brands,
		Locale:         cfg.MarketplaceLocale,
		CacheBackend:   cfg.CacheBackend,
		RedisClient:    core.redisClient,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		core:     core,
		server:   httpserver.New(cfg, loggerClient, d),
		reloader: reloader,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)
	defer a.core.Close()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start brand reloader: %w", err)
	}
	a.logger.Info("brand reloader started",
		logger.Duration("interval", a.cfg.BrandReloadInterval),
		logger.Int("brands", a.core.Brands.Count()))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ durable stopped cleanly")
	return nil
}
