package redis

import (
	"context"
	"fmt"
)

// SaveCatalogBrands replaces the persisted catalog brand list, keeping order.
func (s *Store) SaveCatalogBrands(ctx context.Context, brands []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, KeyCatalogBrands)
	if len(brands) > 0 {
		vals := make([]any, len(brands))
		for i, b := range brands {
			vals[i] = b
		}
		pipe.RPush(ctx, KeyCatalogBrands, vals...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save catalog brands: %w", err)
	}
	return nil
}

// LoadCatalogBrands returns the last persisted catalog brand list (possibly empty).
func (s *Store) LoadCatalogBrands(ctx context.Context) ([]string, error) {
	brands, err := s.client.LRange(ctx, KeyCatalogBrands, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog brands: %w", err)
	}
	return brands, nil
}
