// Package cache holds the public-share view invalidation hook. The shared
// pages and their rendered payloads are served outside this process; the
// batch engine's contract is only that any action which may change what an
// owner's shared pages show marks those views stale.
package cache

import (
	"sync"
	"time"

	"github.com/tmarks/tmarks/internal/metrics"
)

// ShareCache tracks, per owner, when cached share views were last
// invalidated. A renderer compares its cache timestamp against
// InvalidatedAt to decide whether a cached view is still servable.
type ShareCache struct {
	mu          sync.RWMutex
	invalidated map[string]time.Time
}

func NewShareCache() *ShareCache {
	return &ShareCache{invalidated: make(map[string]time.Time)}
}

// Invalidate marks every cached view for ownerID stale. Called
// unconditionally after any successful batch mutation so no
// visibility-relevant cached view is served stale.
func (c *ShareCache) Invalidate(ownerID string) {
	c.mu.Lock()
	c.invalidated[ownerID] = time.Now()
	c.mu.Unlock()
	metrics.ShareCacheInvalidationsTotal.Inc()
}

// InvalidatedAt returns the time of the owner's most recent invalidation,
// if any.
func (c *ShareCache) InvalidatedAt(ownerID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.invalidated[ownerID]
	return t, ok
}
