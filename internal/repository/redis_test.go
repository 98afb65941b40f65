package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
)

func TestRedisRateLimitRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()

	repo := NewRedisRateLimitRepository(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := repo.CheckRateLimit(ctx, 7, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d", i+1)
	}

	allowed, err := repo.CheckRateLimit(ctx, 7, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	ttl := s.TTL(rateLimitKeyPrefix + "7")
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	// other users have their own counter
	allowed, err = repo.CheckRateLimit(ctx, 8, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	s.FastForward(time.Minute + time.Second)
	allowed, err = repo.CheckRateLimit(ctx, 7, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimitRepository_WindowAlwaysExpires(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()

	repo := NewRedisRateLimitRepository(client)
	ctx := context.Background()
	key := rateLimitKeyPrefix + "9"

	for i := 0; i < 5; i++ {
		_, err := repo.CheckRateLimit(ctx, 9, 1, time.Minute)
		require.NoError(t, err)
		ttl := s.TTL(key)
		assert.True(t, ttl > 0 && ttl <= time.Minute, "call %d ttl %s", i+1, ttl)
	}

	// Later calls in the window keep the original expiry.
	s.FastForward(30 * time.Second)
	_, err = repo.CheckRateLimit(ctx, 9, 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, s.TTL(key))

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "6", got)

	s.FastForward(31 * time.Second)
	allowed, err := repo.CheckRateLimit(ctx, 9, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "an over-limit user is released once the window ends")
}

func TestRedisRateLimitRepository_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := (&RedisRateLimitRepository{}).CheckRateLimit(ctx, 1, 1, time.Minute)
	assert.Error(t, err)

	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()

	require.NoError(t, Ping(ctx, client))
	s.Close()

	_, err = NewRedisRateLimitRepository(client).CheckRateLimit(ctx, 1, 1, time.Minute)
	assert.Error(t, err)
	assert.Error(t, Ping(ctx, client))
}
