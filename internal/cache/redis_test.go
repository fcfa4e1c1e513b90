package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hustlefinder/internal/config"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestInitServer_Unreachable(t *testing.T) {
	_, err := InitServer(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestDeviceLedger_CountMissingKey(t *testing.T) {
	cache, _ := setupTestCache(t)
	ledger := NewDeviceLedger(cache, 24*time.Hour)

	count, ttl, err := ledger.Count(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Zero(t, ttl)
}

func TestDeviceLedger_IncrSetsWindowOnce(t *testing.T) {
	cache, mr := setupTestCache(t)
	ledger := NewDeviceLedger(cache, 24*time.Hour)
	ctx := context.Background()

	count, ttl, err := ledger.Incr(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 24*time.Hour, ttl)

	mr.FastForward(10 * time.Hour)

	count, ttl, err = ledger.Incr(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 14*time.Hour, ttl)

	count, _, err = ledger.Count(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeviceLedger_ExpiresAfterWindow(t *testing.T) {
	cache, mr := setupTestCache(t)
	ledger := NewDeviceLedger(cache, 24*time.Hour)
	ctx := context.Background()

	for range 5 {
		_, _, err := ledger.Incr(ctx, "device-1")
		require.NoError(t, err)
	}

	mr.FastForward(24*time.Hour + time.Second)

	count, _, err := ledger.Count(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeviceLedger_KeyWithoutTTLStillExpires(t *testing.T) {
	cache, mr := setupTestCache(t)
	ledger := NewDeviceLedger(cache, 24*time.Hour)
	ctx := context.Background()

	// счётчик на лимите, срок жизни потерян
	require.NoError(t, mr.Set(deviceKeyPrefix+"device-x", "3"))

	count, ttl, err := ledger.Count(ctx, "device-x")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 24*time.Hour, ttl)

	mr.FastForward(72 * time.Hour)

	count, ttl, err = ledger.Count(ctx, "device-x")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Zero(t, ttl)
}

func TestDeviceLedger_IncrRearmsKeyWithoutTTL(t *testing.T) {
	cache, mr := setupTestCache(t)
	ledger := NewDeviceLedger(cache, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set(deviceKeyPrefix+"device-y", "1"))

	count, ttl, err := ledger.Incr(ctx, "device-y")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, time.Hour, ttl)
	assert.Equal(t, time.Hour, mr.TTL(deviceKeyPrefix+"device-y"))
}

func TestDeviceLedger_KeysAreIsolated(t *testing.T) {
	cache, _ := setupTestCache(t)
	ledger := NewDeviceLedger(cache, time.Hour)
	ctx := context.Background()

	_, _, err := ledger.Incr(ctx, "a")
	require.NoError(t, err)

	count, _, err := ledger.Count(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRevokeSession(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	revoked, err := cache.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, cache.RevokeSession(ctx, "jti-1", time.Hour))

	revoked, err = cache.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Hour + time.Second)

	revoked, err = cache.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeSession_ExpiredTokenIsNoop(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, cache.RevokeSession(context.Background(), "jti-1", 0))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-1"))
}

func TestMarkEventProcessed(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	first, err := cache.MarkEventProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = cache.MarkEventProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, first)

	first, err = cache.MarkEventProcessed(ctx, "evt_2", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}

func TestMarkDigestSent(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	first, err := cache.MarkDigestSent(ctx, "acc-1", "2026-W42", 8*24*time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = cache.MarkDigestSent(ctx, "acc-1", "2026-W42", 8*24*time.Hour)
	require.NoError(t, err)
	assert.False(t, first)

	first, err = cache.MarkDigestSent(ctx, "acc-1", "2026-W43", 8*24*time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	mr.FastForward(9 * 24 * time.Hour)
	first, err = cache.MarkDigestSent(ctx, "acc-1", "2026-W42", 8*24*time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}
