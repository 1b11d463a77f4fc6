package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create test indexer with miniredis
func newTestRedisIndexer(tb testing.TB, ttl time.Duration) (*RedisIndexer, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(tb, err)
	tb.Cleanup(mr.Close)

	ri := &RedisIndexer{
		client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		ttl:    ttl,
	}
	tb.Cleanup(func() { _ = ri.Close() })
	return ri, mr
}

func TestNewRedisIndexer_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ri, err := NewRedisIndexer(mr.Addr(), time.Hour)
	require.NoError(t, err)
	require.NotNil(t, ri)
	defer func() { _ = ri.Close() }()

	assert.Equal(t, "redis", ri.Name())
	assert.NoError(t, ri.HealthCheck(context.Background()))
}

func TestNewRedisIndexer_ConnectionFailure(t *testing.T) {
	ri, err := NewRedisIndexer("127.0.0.1:1", time.Hour)

	require.Error(t, err)
	assert.Nil(t, ri)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestRedisIndexer_Update(t *testing.T) {
	ri, mr := newTestRedisIndexer(t, time.Hour)

	err := ri.Update(context.Background(), "http://repo/objects/1", "hello")
	require.NoError(t, err)

	got, err := mr.Get("idx:content:http://repo/objects/1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// TTL applied
	ttl := mr.TTL("idx:content:http://repo/objects/1")
	assert.Equal(t, time.Hour, ttl)
}

func TestRedisIndexer_Update_NoTTL(t *testing.T) {
	ri, mr := newTestRedisIndexer(t, 0)

	err := ri.Update(context.Background(), "http://repo/objects/1", "hello")
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), mr.TTL("idx:content:http://repo/objects/1"))
}

func TestRedisIndexer_Update_Overwrites(t *testing.T) {
	ri, mr := newTestRedisIndexer(t, 0)
	ctx := context.Background()

	require.NoError(t, ri.Update(ctx, "http://repo/objects/1", "first"))
	require.NoError(t, ri.Update(ctx, "http://repo/objects/1", "second"))

	got, err := mr.Get("idx:content:http://repo/objects/1")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestRedisIndexer_Remove(t *testing.T) {
	ri, mr := newTestRedisIndexer(t, 0)
	ctx := context.Background()

	require.NoError(t, ri.Update(ctx, "http://repo/objects/1", "hello"))
	require.NoError(t, ri.Remove(ctx, "http://repo/objects/1"))

	assert.False(t, mr.Exists("idx:content:http://repo/objects/1"))
}

func TestRedisIndexer_Remove_MissingKey(t *testing.T) {
	ri, _ := newTestRedisIndexer(t, 0)

	// Out-of-order update/remove pairs must be tolerated
	assert.NoError(t, ri.Remove(context.Background(), "http://repo/never-indexed"))
}

func TestRedisIndexer_Update_ServerGone(t *testing.T) {
	ri, mr := newTestRedisIndexer(t, 0)
	mr.Close()

	err := ri.Update(context.Background(), "http://repo/objects/1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store content in Redis")
}
