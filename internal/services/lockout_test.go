package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLockout(t *testing.T, maxAttempts int) (*LockoutService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLockoutService(rdb, zap.NewNop(), maxAttempts, 15*time.Minute), mr
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	svc, _ := newTestLockout(t, 3)
	ctx := context.Background()
	email := "patient@example.com"

	locked, err := svc.IsLocked(ctx, email)
	require.NoError(t, err)
	assert.False(t, locked)

	for i := 0; i < 2; i++ {
		triggered, err := svc.RegisterFailure(ctx, email)
		require.NoError(t, err)
		assert.False(t, triggered, "lock must not trigger before the threshold")
	}

	triggered, err := svc.RegisterFailure(ctx, email)
	require.NoError(t, err)
	assert.True(t, triggered)

	locked, err = svc.IsLocked(ctx, email)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestLockExpiresOnItsOwn(t *testing.T) {
	svc, mr := newTestLockout(t, 1)
	ctx := context.Background()
	email := "patient@example.com"

	_, err := svc.RegisterFailure(ctx, email)
	require.NoError(t, err)

	locked, err := svc.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, locked)

	mr.FastForward(16 * time.Minute)

	locked, err = svc.IsLocked(ctx, email)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestClearFailuresResetsCounter(t *testing.T) {
	svc, _ := newTestLockout(t, 3)
	ctx := context.Background()
	email := "patient@example.com"

	for i := 0; i < 2; i++ {
		_, err := svc.RegisterFailure(ctx, email)
		require.NoError(t, err)
	}
	require.NoError(t, svc.ClearFailures(ctx, email))

	// Counting starts over after a successful login
	for i := 0; i < 2; i++ {
		triggered, err := svc.RegisterFailure(ctx, email)
		require.NoError(t, err)
		assert.False(t, triggered)
	}
}

func TestAdminUnlock(t *testing.T) {
	svc, _ := newTestLockout(t, 1)
	ctx := context.Background()
	email := "patient@example.com"

	_, err := svc.RegisterFailure(ctx, email)
	require.NoError(t, err)
	locked, err := svc.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, svc.Unlock(ctx, email))

	locked, err = svc.IsLocked(ctx, email)
	require.NoError(t, err)
	assert.False(t, locked)

	// Failure counter is gone too, not just the lock flag
	triggered, err := svc.RegisterFailure(ctx, email)
	require.NoError(t, err)
	assert.True(t, triggered, "threshold of 1 should lock again on the next failure")
}
