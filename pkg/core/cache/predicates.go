package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/msto63/plankton/pkg/predicate"
)

// PredicateCache keeps compiled filter expressions keyed by their source
type PredicateCache struct {
	cache *Cache
}

// NewPredicateCache creates a predicate cache
func NewPredicateCache(cfg Config) *PredicateCache {
	return &PredicateCache{cache: New(cfg)}
}

// PredicateKey generates a cache key for an expression source
func PredicateKey(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "expr:" + hex.EncodeToString(hash[:16]) // Use first 16 bytes
}

// Compile returns the cached predicate for source, compiling it on a miss.
// Compile errors are returned and not cached.
func (c *PredicateCache) Compile(source string) (*predicate.Predicate, error) {
	val, err := c.cache.GetOrSet(PredicateKey(source), func() (interface{}, error) {
		return predicate.Compile(source)
	})
	if err != nil {
		return nil, err
	}
	return val.(*predicate.Predicate), nil
}

// Stats returns cache statistics
func (c *PredicateCache) Stats() map[string]interface{} {
	hits, misses, rate := c.cache.Stats()
	return map[string]interface{}{
		"size":     c.cache.Size(),
		"hits":     hits,
		"misses":   misses,
		"hit_rate": rate,
	}
}

// Close stops the underlying cache
func (c *PredicateCache) Close() {
	c.cache.Close()
}
