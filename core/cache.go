package core

import (
	"sync"
	"time"
)

// InMemoryCache is a process-local token cache placed in front of the
// TokenStore. Entries expire after a TTL and the map is capped at a maximum
// size with simple eviction.
type InMemoryCache struct {
	cache   map[string]*cachedEntry // key: token hash
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
}

type cachedEntry struct {
	token    *AuthToken
	cachedAt time.Time
}

// CacheConfig configures cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

func NewInMemoryCache(config CacheConfig) *InMemoryCache {
	ttl := config.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	maxSize := config.MaxSize
	if maxSize == 0 {
		maxSize = 500
	}

	return &InMemoryCache{
		cache:   make(map[string]*cachedEntry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (c *InMemoryCache) Get(tokenHash string) (*AuthToken, error) {
	c.mu.RLock()
	entry, exists := c.cache[tokenHash]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrCacheMiss
	}

	if time.Since(entry.cachedAt) > c.ttl {
		c.mu.Lock()
		delete(c.cache, tokenHash)
		c.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry.token, nil
}

func (c *InMemoryCache) Set(tokenHash string, token *AuthToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			break
		}
	}

	c.cache[tokenHash] = &cachedEntry{
		token:    token,
		cachedAt: time.Now(),
	}

	return nil
}

func (c *InMemoryCache) Delete(tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, tokenHash)
	return nil
}

func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cachedEntry)
	return nil
}

func (c *InMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
