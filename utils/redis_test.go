package utils_test

import (
	"context"
	"testing"

	"noto/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedisPool(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := utils.OpenRedisPool(context.Background(), "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	srv.CheckGet(t, "k", "v")
}

func TestOpenRedisPool_BadURL(t *testing.T) {
	_, err := utils.OpenRedisPool(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestOpenRedisPool_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := utils.OpenRedisPool(context.Background(), "redis://"+addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
