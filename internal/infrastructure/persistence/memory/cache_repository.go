// Package memory provides in-memory implementations of the outbound ports
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		data: make(map[string]CacheItem),
		now:  time.Now,
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists {
		return nil, outbound.ErrCacheMiss
	}
	if r.now().After(item.ExpiresAt) {
		r.mutex.Lock()
		delete(r.data, key)
		r.mutex.Unlock()
		return nil, outbound.ErrCacheMiss
	}

	return append([]byte(nil), item.Value...), nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = CacheItem{
		Value:     append([]byte(nil), value...),
		ExpiresAt: r.now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if err == outbound.ErrCacheMiss {
		return false, nil
	}
	return err == nil, err
}

// Increment increments a counter stored as a decimal string
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var value int64
	if item, ok := r.data[key]; ok && r.now().Before(item.ExpiresAt) {
		parsed, err := strconv.ParseInt(string(item.Value), 10, 64)
		if err != nil {
			return 0, err
		}
		value = parsed
	}
	value++

	r.data[key] = CacheItem{
		Value:     []byte(strconv.FormatInt(value, 10)),
		ExpiresAt: r.now().Add(defaultTTL),
	}
	return value, nil
}

// Sweep drops expired entries and reports how many were removed.
func (r *CacheRepository) Sweep() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	now := r.now()
	for key, item := range r.data {
		if now.After(item.ExpiresAt) {
			delete(r.data, key)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (r *CacheRepository) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
