package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewAccountCache(client)
	ctx := context.Background()

	accNo := "JOH1234"
	value := []byte(`{"account_number":"JOH1234","holder_name":"John","balance":1000}`)

	// Get before set => nil
	result, err := cache.Get(ctx, accNo)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, accNo, value, 5*time.Minute)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, accNo)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestAccountCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewAccountCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "JOH1234", []byte(`{"balance":500}`), 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, "JOH1234")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}

func TestAccountCache_Delete(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewAccountCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "JOH1234", []byte(`{"balance":500}`), 1*time.Hour)
	require.NoError(t, err)

	err = cache.Delete(ctx, "JOH1234")
	require.NoError(t, err)

	result, err := cache.Get(ctx, "JOH1234")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestAccountCache_DeleteMissingKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewAccountCache(client)

	err := cache.Delete(context.Background(), "XYZ9999")
	assert.NoError(t, err)
}
