package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, max int) (*miniredis.Miniredis, *LoginLimiter) {
	mr := miniredis.RunT(t)
	return mr, New(NewClient(mr.Addr(), "", 0), max, time.Minute)
}

func TestLoginLimiter_LocksAfterMax(t *testing.T) {
	_, l := setupLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Attempt(ctx, "a@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
	}
	ok, err := l.Attempt(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// 其它账号不受影响
	ok, err = l.Attempt(ctx, "b@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_ConcurrentAttemptsNeverExceedMax(t *testing.T) {
	_, l := setupLimiter(t, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var allowed atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Attempt(ctx, "a@example.com")
			if err == nil && ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 5, allowed.Load())
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	mr, l := setupLimiter(t, 1)
	ctx := context.Background()

	ok, err := l.Attempt(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("login:fail:a@example.com"))

	ok, _ = l.Attempt(ctx, "a@example.com")
	assert.False(t, ok)
	// 锁定期间的尝试不延长窗口
	assert.Equal(t, time.Minute, mr.TTL("login:fail:a@example.com"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Attempt(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_Reset(t *testing.T) {
	mr, l := setupLimiter(t, 1)
	ctx := context.Background()

	_, err := l.Attempt(ctx, "a@example.com")
	require.NoError(t, err)
	require.NoError(t, l.Reset(ctx, "a@example.com"))
	assert.False(t, mr.Exists("login:fail:a@example.com"))
}
