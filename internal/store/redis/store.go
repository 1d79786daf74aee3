package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultEntryTTL bounds how long Redis keeps a cached response.
// Freshness is judged by the catalog client; this only reclaims memory.
const DefaultEntryTTL = 24 * time.Hour

// Store is the Redis-backed shared state of durable instances.
type Store struct {
	client   *redis.Client
	entryTTL time.Duration
}

// NewStore creates a new Redis store. A non-positive ttl uses DefaultEntryTTL.
func NewStore(client *redis.Client, entryTTL time.Duration) *Store {
	if entryTTL <= 0 {
		entryTTL = DefaultEntryTTL
	}
	return &Store{
		client:   client,
		entryTTL: entryTTL,
	}
}
