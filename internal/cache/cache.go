package cache

import (
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type item[V any] struct {
	value      V
	expiration int64
}

// Cache is an in-process key/value store whose entries expire after a TTL.
// Nothing in it outlives the process.
type Cache[V any] struct {
	items map[string]item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its background sweeper; call Close to stop it
func New[V any](defaultTTL time.Duration) *Cache[V] {
	c := newCache[V](defaultTTL, time.Now)
	go c.cleanupExpired(cleanupInterval)
	return c
}

func newCache[V any](defaultTTL time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]item[V]),
		ttl:   defaultTTL,
		now:   now,
		stop:  make(chan struct{}),
	}
}

// Set stores a value, optionally with its own TTL
func (c *Cache[V]) Set(key string, value V, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}

	c.items[key] = item[V]{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

// Get returns the value if present and not expired
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	it, found := c.items[key]
	if !found {
		return zero, false
	}
	if c.now().UnixNano() > it.expiration {
		return zero, false
	}
	return it.value, true
}

// Delete removes a key
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size is the number of stored entries, expired ones included until swept
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background sweeper
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}
