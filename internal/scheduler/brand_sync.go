package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/durable/internal/index"
	"github.com/MrSnakeDoc/durable/internal/logger"
)

// BrandSyncer restores the persisted catalog brand list into the index on
// startup, so brand detection works before the catalog answers.
type BrandSyncer struct {
	store  BrandStore
	index  *index.BrandIndex
	logger logger.Logger
}

// NewBrandSyncer creates a new brand syncer
func NewBrandSyncer(store BrandStore, idx *index.BrandIndex, log logger.Logger) *BrandSyncer {
	return &BrandSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the persisted catalog brands into the index
func (bs *BrandSyncer) Sync(ctx context.Context) error {
	bs.logger.Info("restoring catalog brands from redis")

	brands, err := bs.store.LoadCatalogBrands(ctx)
	if err != nil {
		return err
	}
	if len(brands) == 0 {
		bs.logger.Info("no catalog brands persisted")
		return nil
	}

	bs.index.UpdateSource(index.SourceCatalog, brands)
	bs.logger.Info("restored catalog brands", logger.Int("count", len(brands)))
	return nil
}
