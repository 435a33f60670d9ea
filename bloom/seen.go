// Package bloom provides a probabilistic content-hash cache that answers
// "definitely new" cheaply, so most duplicate checks skip the database.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// SeenCache remembers content hashes per source. A negative answer is
// exact: the hash was never added. A positive answer may be a false
// positive and must be confirmed against the store.
//
// SeenCache is safe for concurrent use.
type SeenCache struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewSeenCache creates a cache sized for n expected hashes with the given
// false positive rate.
func NewSeenCache(n uint, fpRate float64) *SeenCache {
	return &SeenCache{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a content hash for a source.
func (c *SeenCache) Add(sourceID, hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.f.AddString(key(sourceID, hash))
}

// MaybeSeen reports whether the hash may have been recorded for the
// source. False positives are possible; false negatives are not.
func (c *SeenCache) MaybeSeen(sourceID, hash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.f.TestString(key(sourceID, hash))
}

// EstimatedCount returns the approximate number of recorded hashes.
func (c *SeenCache) EstimatedCount() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint(c.f.ApproximatedSize())
}

// Hashes are scoped per source: the same content under two sources is two
// entries.
func key(sourceID, hash string) string {
	return sourceID + ":" + hash
}
