package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	require.NoError(t, cache.Set(ctx, "recipe:1", []byte(`{"id":1}`), time.Minute))

	got, err := cache.Get(ctx, "recipe:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(got))

	ok, err := cache.Exists(ctx, "recipe:1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "recipe:1"))
	_, err = cache.Get(ctx, "recipe:1")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	require.NoError(t, cache.Set(ctx, "long", []byte("v"), time.Hour))
	clock = clock.Add(2 * time.Second)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	assert.Equal(t, 0, cache.Sweep())

	clock = clock.Add(2 * time.Hour)
	assert.Equal(t, 1, cache.Sweep())
}

func TestCacheRepository_Increment(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	first, err := cache.Increment(ctx, "hits")
	require.NoError(t, err)
	second, err := cache.Increment(ctx, "hits")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}
