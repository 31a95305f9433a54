package cache_test

import (
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tmarks/tmarks/internal/cache"
	"github.com/tmarks/tmarks/internal/metrics"
)

func TestInvalidateMarksOnlyOwnerStale(t *testing.T) {
	c := cache.NewShareCache()

	if _, ok := c.InvalidatedAt("alice"); ok {
		t.Fatal("owner marked stale before any invalidation")
	}

	before := promtestutil.ToFloat64(metrics.ShareCacheInvalidationsTotal)
	start := time.Now()
	c.Invalidate("alice")

	at, ok := c.InvalidatedAt("alice")
	if !ok {
		t.Fatal("owner not marked stale after Invalidate")
	}
	if at.Before(start) {
		t.Errorf("invalidation time %v predates the call at %v", at, start)
	}
	if _, ok := c.InvalidatedAt("bob"); ok {
		t.Error("unrelated owner marked stale")
	}
	if got := promtestutil.ToFloat64(metrics.ShareCacheInvalidationsTotal); got != before+1 {
		t.Errorf("invalidations counter advanced by %v, want 1", got-before)
	}
}

func TestInvalidateAdvancesTimestamp(t *testing.T) {
	c := cache.NewShareCache()
	c.Invalidate("alice")
	first, _ := c.InvalidatedAt("alice")
	c.Invalidate("alice")
	second, _ := c.InvalidatedAt("alice")
	if second.Before(first) {
		t.Errorf("second invalidation at %v predates first at %v", second, first)
	}
}
