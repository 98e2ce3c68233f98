// Package cache keeps classified builds in memory.
package cache

import (
	"time"
)

// Cacher is an interface for a cache for arbitrary objects
type Cacher interface {
	// Get returns the cached object under the key and its remaining TTL. A TTL of 0
	// means the object never expires. The returned interface is nil if the object
	// can't be found or it expired.
	Get(key string) (interface{}, time.Duration)

	// Put adds an object under key to the cache. Any object that may be stored
	// under the same key will be overwritten. The object expires after ttl,
	// a ttl of 0 keeps it until it is evicted. If the cache holds more than
	// the allowed number of entries, the least used objects will be removed.
	Put(key string, o interface{}, ttl time.Duration)

	// Delete removes the object stored under the key.
	Delete(key string)

	// Purge empties the whole cache.
	Purge()

	// Len returns the number of cached objects, including expired ones that
	// haven't been removed yet.
	Len() int

	// TTL returns the cache's default TTL
	TTL() time.Duration
}
