package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLock(t *testing.T, ttl time.Duration) *StudentLock {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewStudentLock(rdb, ttl)
}

func TestAcquireRelease(t *testing.T) {
	l := testLock(t, 10*time.Second)
	ctx := context.Background()
	sid := "lock-test-student"
	defer l.Release(ctx, sid)

	require.NoError(t, l.Acquire(ctx, sid))

	// 持锁期间再次获取要失败
	assert.ErrorIs(t, l.Acquire(ctx, sid), ErrBusy)

	// 不同学生互不影响
	other := "lock-test-other"
	require.NoError(t, l.Acquire(ctx, other))
	l.Release(ctx, other)

	l.Release(ctx, sid)
	require.NoError(t, l.Acquire(ctx, sid))
}

func TestLockExpires(t *testing.T) {
	l := testLock(t, 100*time.Millisecond)
	ctx := context.Background()
	sid := "lock-test-ttl"
	defer l.Release(ctx, sid)

	require.NoError(t, l.Acquire(ctx, sid))
	time.Sleep(200 * time.Millisecond)

	// TTL 过期后可以重新拿到
	require.NoError(t, l.Acquire(ctx, sid))
}
