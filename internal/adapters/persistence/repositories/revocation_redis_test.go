package repositories

import (
	"context"
	"testing"
	"time"

	"arogya-records/internal/pkg/password"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisList(t *testing.T) (*miniredis.Miniredis, RevocationList) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisRevocationList(client, "")
}

func TestRedisRevocationList(t *testing.T) {
	mr, list := newRedisList(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, list.Add(ctx, "token-a", now.Add(time.Hour), now))

	revoked, err := list.Contains(ctx, "token-a", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.Contains(ctx, "token-b", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	// key expires with the token
	mr.FastForward(time.Hour + time.Second)
	revoked, err = list.Contains(ctx, "token-a", now)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList_SkipsExpiredTokens(t *testing.T) {
	mr, list := newRedisList(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, list.Add(ctx, "token-old", now.Add(-time.Minute), now))
	assert.Empty(t, mr.Keys())

	purged, err := list.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestRedisRevocationList_TTLFromCallerClock(t *testing.T) {
	mr, list := newRedisList(t)
	ctx := context.Background()

	// already past on the wall clock, still live on the caller's clock
	now := time.Now().Add(-2 * time.Hour)
	require.NoError(t, list.Add(ctx, "token-a", now.Add(time.Hour), now))

	key := DefaultRevocationPrefix + password.HashToken("token-a")
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	revoked, err := list.Contains(ctx, "token-a", now)
	require.NoError(t, err)
	assert.True(t, revoked)
}
