// Package resultcache implements the short-TTL read-only result
// snapshot cache (CachedResult, spec §3): column metadata plus
// materialized rows, keyed by a hash of translated SQL and parameter
// vector, immutable once published and refcounted so an in-flight
// StatementRecord never has its rows evicted out from under it.
package resultcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/cgnl/plex-postgresql/internal/metrics"
)

// ColumnMeta describes one result column, mirroring what step()
// reports via the accessor layer.
type ColumnMeta struct {
	Name    string
	TypeOID uint32
}

// Row is one materialized row: each value is nil for SQL NULL,
// otherwise the value's text form and its length for O(1) length
// queries from the accessor layer.
type Row struct {
	Values  []*string
	Lengths []int
}

// CachedResult is one immutable, published snapshot of a read-only
// result set. A result is published with an implicit refcount of 1
// held by the cache itself; every Get adds one more, released by the
// caller once it stops referencing the snapshot.
type CachedResult struct {
	Columns   []ColumnMeta
	Rows      []Row
	CreatedAt time.Time

	refcount atomic.Int64
}

// Retain increments the reference count, taken by a StatementRecord
// that starts reading from the snapshot.
func (c *CachedResult) Retain() { c.refcount.Add(1) }

// Release decrements the reference count and returns the value after
// decrementing. Go's garbage collector reclaims the backing memory
// once nothing holds a pointer to it regardless of this count; the
// count exists so callers can observe the refcount ≥ 1 invariant
// spec §3 describes, not to drive manual freeing.
func (c *CachedResult) Release() int64 { return c.refcount.Add(-1) }

// RefCount reports the current reference count.
func (c *CachedResult) RefCount() int64 { return c.refcount.Load() }

// Cache is the process-wide table of published CachedResults.
type Cache struct {
	lru *lru.LRU[string, *CachedResult]
}

// New builds a Cache with the given entry capacity and per-entry TTL.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Cache{lru: lru.NewLRU[string, *CachedResult](size, nil, ttl)}
}

// Key derives the cache key for a translated SQL string and its bound
// parameter values.
func Key(translatedSQL string, params []string) string {
	h := sha256.New()
	h.Write([]byte(translatedSQL))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(params, "\x1f")))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Get returns the cached result for key, if present and unexpired,
// retaining a reference on the caller's behalf.
func (c *Cache) Get(key string) (*CachedResult, bool) {
	cr, ok := c.lru.Get(key)
	outcome := "miss"
	if ok {
		outcome = "hit"
		cr.Retain()
	}
	metrics.ResultCacheTotal.WithLabelValues(outcome).Inc()
	return cr, ok
}

// Put publishes cr under key. cr must not be mutated afterward.
func (c *Cache) Put(key string, cr *CachedResult) {
	cr.refcount.Store(1)
	cr.CreatedAt = time.Now()
	c.lru.Add(key, cr)
}

// Len reports the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge empties the cache. Nothing in this module calls it
// automatically; a reconnect does not purge the cache.
func (c *Cache) Purge() { c.lru.Purge() }
