// Package stmtcache implements the per-session prepared-statement name
// cache: hash(translated SQL) -> remote-side prepared statement name,
// fixed capacity, least-recently-used eviction. Grounded on the
// referenced-but-not-retrieved internal/util/stmtcache.New[K](db, size)
// constructor shape, rebuilt against golang-lru/v2 instead of a
// hand-rolled LRU.
package stmtcache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cgnl/plex-postgresql/internal/metrics"
)

// Cache maps a hash of translated SQL onto the name Engine-R knows the
// prepared statement by. One Cache is owned by one PoolSlot and is
// invalidated wholesale when the slot transitions out of READY.
type Cache struct {
	lru *lru.Cache[string, string]
}

// New builds a Cache with the given capacity.
func New(size int) *Cache {
	if size <= 0 {
		size = 256
	}
	l, _ := lru.New[string, string](size)
	return &Cache{lru: l}
}

// Hash returns the cache key for a translated SQL string.
func Hash(translatedSQL string) string {
	sum := sha256.Sum256([]byte(translatedSQL))
	return hex.EncodeToString(sum[:16])
}

// Lookup returns the remote statement name for hash, if cached.
func (c *Cache) Lookup(hash string) (name string, ok bool) {
	name, ok = c.lru.Get(hash)
	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	metrics.StmtCacheTotal.WithLabelValues(outcome).Inc()
	return name, ok
}

// Store records the remote statement name for hash, generated
// deterministically from the hash, and returns it.
func (c *Cache) Store(hash string) (name string) {
	name = "ps_" + hash[:16]
	c.lru.Add(hash, name)
	return name
}

// Invalidate empties the cache, used when the owning slot leaves READY.
func (c *Cache) Invalidate() {
	c.lru.Purge()
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
