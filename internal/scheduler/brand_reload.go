package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/durable/internal/index"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/sources/brands"
)

// BrandFetcher returns the catalog's current brand list.
type BrandFetcher interface {
	FetchBrands(ctx context.Context) ([]string, error)
}

// BrandStore persists the last catalog brand list between restarts.
type BrandStore interface {
	SaveCatalogBrands(ctx context.Context, brands []string) error
	LoadCatalogBrands(ctx context.Context) ([]string, error)
}

// BrandReloader keeps the brand index in sync with the seed file and the catalog.
type BrandReloader struct {
	loader        *brands.Loader
	fetcher       BrandFetcher
	store         BrandStore // optional
	index         *index.BrandIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewBrandReloader creates a new brand reloader. store may be nil.
func NewBrandReloader(
	seedFile string,
	fetcher BrandFetcher,
	store BrandStore,
	idx *index.BrandIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *BrandReloader {
	return &BrandReloader{
		loader:        brands.NewLoader(seedFile),
		fetcher:       fetcher,
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the index once, then refreshes it on every tick or manual trigger.
// Only a broken seed file makes the first load fail.
func (br *BrandReloader) Start(ctx context.Context) error {
	if err := br.Reload(ctx); err != nil {
		return fmt.Errorf("initial brand reload failed: %w", err)
	}

	ticker := time.NewTicker(br.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				br.reloadAndLog(ctx)
			case <-br.manualTrigger:
				br.logger.Info("manual brand reload triggered")
				br.reloadAndLog(ctx)
			case <-br.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. Safe to call more than once.
func (br *BrandReloader) Stop() {
	br.stopOnce.Do(func() { close(br.stopCh) })
}

func (br *BrandReloader) reloadAndLog(ctx context.Context) {
	if err := br.Reload(ctx); err != nil {
		br.logger.Error("failed to reload brands", logger.Error(err))
	}
}

// Reload refreshes the seed and catalog sources of the index.
// When the catalog cannot be reached the previous catalog set is kept.
func (br *BrandReloader) Reload(ctx context.Context) error {
	seed, err := br.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load brand seed: %w", err)
	}
	br.index.UpdateSource(index.SourceSeed, seed.Brands)
	br.index.SetAliases(seed.Aliases)

	fromCatalog, err := br.fetcher.FetchBrands(ctx)
	if err != nil {
		br.logger.Warn("catalog brand list unavailable, keeping previous set",
			logger.Int("kept", len(br.index.Source(index.SourceCatalog))),
			logger.Error(err))
		return nil
	}
	fromCatalog = brands.Clean(fromCatalog)
	br.index.UpdateSource(index.SourceCatalog, fromCatalog)

	if br.store != nil {
		if err := br.store.SaveCatalogBrands(ctx, fromCatalog); err != nil {
			// the index is the primary copy
			br.logger.Warn("failed to persist catalog brands", logger.Error(err))
		}
	}

	br.logger.Info("brand index reloaded",
		logger.Int("seed", len(seed.Brands)),
		logger.Int("catalog", len(fromCatalog)),
		logger.Int("total", br.index.Count()))
	return nil
}
