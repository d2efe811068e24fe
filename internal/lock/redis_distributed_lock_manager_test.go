package lock

import (
	"context"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestRedisDistributedLockManager(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer client.Close()
	ctx := context.Background()

	a := NewRedisDistributedLockManager(client, "instance-a", time.Minute)
	b := NewRedisDistributedLockManager(client, "instance-b", time.Minute)

	ok, err := a.TryAcquire(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryAcquire(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	// b does not own the lease, so its release leaves a's lock alone
	require.NoError(t, b.Release(ctx, 7))
	assert.True(t, srv.Exists("remindfire:lock:7"))

	require.NoError(t, a.Release(ctx, 7))
	assert.False(t, srv.Exists("remindfire:lock:7"))

	ok, err = b.TryAcquire(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisDistributedLockManager_LeaseExpires(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer client.Close()
	ctx := context.Background()

	a := NewRedisDistributedLockManager(client, "instance-a", time.Second)
	b := NewRedisDistributedLockManager(client, "instance-b", time.Second)

	ok, err := a.TryAcquire(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)

	srv.FastForward(2 * time.Second)

	ok, err = b.TryAcquire(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
