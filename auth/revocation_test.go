package auth_test

import (
	"context"
	"testing"
	"time"

	"noto/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisRevoker(t *testing.T) {
	srv, client := newRedis(t)
	revoker := auth.NewRedisRevoker(client)
	ctx := context.Background()

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", 30*time.Minute))
	assert.Equal(t, 30*time.Minute, srv.TTL("revoked_token:jti-1"))

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	srv.FastForward(31 * time.Minute)
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker_ExpiredTokenIsNotStored(t *testing.T) {
	srv, client := newRedis(t)
	revoker := auth.NewRedisRevoker(client)

	require.NoError(t, revoker.Revoke(context.Background(), "jti-old", -time.Second))
	assert.False(t, srv.Exists("revoked_token:jti-old"))
}

func TestRedisRevoker_ServerDown(t *testing.T) {
	srv, client := newRedis(t)
	revoker := auth.NewRedisRevoker(client)
	srv.Close()

	_, err := revoker.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestNoopRevoker(t *testing.T) {
	var r auth.Revoker = auth.NoopRevoker{}
	require.NoError(t, r.Revoke(context.Background(), "jti", time.Hour))
	revoked, err := r.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
