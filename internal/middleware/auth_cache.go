package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/countledger/countledger/internal/domain"
)

const (
	sessionCacheTTL    = 1 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("session not found (cached)")

type cachedSession struct {
	identity  domain.Identity
	negative  bool
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (cs cachedSession) ttl() time.Duration {
	if cs.negative {
		return negativeCacheTTL
	}
	return sessionCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the token so raw tokens
// are never stored in memory.
func hashKey(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// CachedSessionLookup wraps a SessionLookup with a bounded in-memory cache.
// The positive TTL is short so revoked sessions stop working quickly.
type CachedSessionLookup struct {
	inner SessionLookup
	mu    sync.RWMutex
	cache map[string]cachedSession
}

// NewCachedSessionLookup creates a caching wrapper around the given SessionLookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedSessionLookup(ctx context.Context, inner SessionLookup) *CachedSessionLookup {
	c := &CachedSessionLookup{
		inner: inner,
		cache: make(map[string]cachedSession),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedSessionLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// ResolveToken returns a cached identity or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB hammering.
func (c *CachedSessionLookup) ResolveToken(ctx context.Context, token string) (domain.Identity, error) {
	hk := hashKey(token)

	// Read path — RLock for concurrent cache hits.
	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.negative {
			return domain.Identity{}, errCachedNotFound
		}
		return entry.identity, nil
	}
	c.mu.RUnlock()

	// Cache miss or expired — fetch from inner.
	id, err := c.inner.ResolveToken(ctx, token)
	if err != nil {
		// Negative cache: store failed lookup with short TTL.
		c.mu.Lock()
		c.cache[hk] = cachedSession{negative: true, fetchedAt: time.Now()}
		c.mu.Unlock()
		return domain.Identity{}, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[hk] = cachedSession{identity: id, fetchedAt: time.Now()}
	c.mu.Unlock()

	return id, nil
}
