package redis

import "strings"

const (
	// KeyPrefixCache is the prefix for cached catalog responses
	KeyPrefixCache = "durable:cache:"
	// KeyCatalogBrands holds the last brand list fetched from the catalog
	KeyCatalogBrands = "durable:brands:catalog"
)

// CacheKey returns the Redis key for a catalog request key
func CacheKey(requestKey string) string {
	return KeyPrefixCache + requestKey
}

// RequestKeyOf strips the cache prefix from a Redis key.
func RequestKeyOf(key string) (string, bool) {
	return strings.CutPrefix(key, KeyPrefixCache)
}
