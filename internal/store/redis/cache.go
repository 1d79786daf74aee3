package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/durable/internal/catalog"
)

var _ catalog.Cache = (*Store)(nil)

// Get retrieves a cached catalog response
func (s *Store) Get(ctx context.Context, key string) (catalog.Entry, bool, error) {
	data, err := s.client.Get(ctx, CacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return catalog.Entry{}, false, nil // Cache miss
		}
		return catalog.Entry{}, false, fmt.Errorf("failed to get cached response: %w", err)
	}

	var e catalog.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return catalog.Entry{}, false, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return e, true, nil
}

// Set stores a catalog response
func (s *Store) Set(ctx context.Context, key string, e catalog.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal cached response: %w", err)
	}
	if err := s.client.Set(ctx, CacheKey(key), data, s.entryTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Delete removes one cached response
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, CacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// Clear removes every cached response, leaving other durable keys alone
func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return flush()
}
