package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/ports"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is the in-memory stand-in used when Redis is unavailable
// outside production. Everything it holds is per-instance: a revoked token
// stays usable against other instances until it expires, and contact-list
// caching stops being shared. Callers already treat cache errors as misses,
// so swapping it in changes durability, not behavior.
type LocalCache struct {
	mu   sync.Mutex
	data map[string]localEntry
	log  *zap.Logger
	done chan struct{}
}

// NewLocalCache starts an in-memory cache whose expired entries are swept
// every sweepInterval.
func NewLocalCache(sweepInterval time.Duration, log *zap.Logger) ports.Cache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &LocalCache{
		data: make(map[string]localEntry),
		log:  log,
		done: make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)

	log.Info("In-memory cache initialized", zap.Duration("sweep_interval", sweepInterval))
	return c
}

// Get returns the value for key; a miss or an expired entry is an error,
// matching the Redis adapter. Expired entries are removed on the spot
// rather than waiting for the sweeper.
func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		delete(c.data, key)
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		raw = string(data)
	}

	entry := localEntry{value: raw}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	close(c.done)
	return nil
}

func (c *LocalCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	swept := 0
	for key, entry := range c.data {
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(now) {
			delete(c.data, key)
			swept++
		}
	}
	if swept > 0 {
		c.log.Debug("Swept expired cache entries", zap.Int("count", swept))
	}
}
