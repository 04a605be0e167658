package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_WithinBurst(t *testing.T) {
	limiter := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("cart"), "request %d should fit the burst", i)
	}
	assert.False(t, limiter.Allow("cart"), "burst exhausted")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter := New(1, 1)

	assert.True(t, limiter.Allow("cart"))
	assert.False(t, limiter.Allow("cart"))

	// A different key has its own bucket.
	assert.True(t, limiter.Allow("wishlist"))
}

func TestAllow_Refills(t *testing.T) {
	limiter := New(100, 1)

	require.True(t, limiter.Allow("cart"))
	require.False(t, limiter.Allow("cart"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow("cart"), "token refilled after waiting")
}

func TestWait_ReturnsImmediatelyWithinBurst(t *testing.T) {
	limiter := New(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, limiter.Wait(ctx, "cart"))
}

func TestWait_CanceledContext(t *testing.T) {
	limiter := New(0.1, 1)
	require.True(t, limiter.Allow("cart"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, limiter.Wait(ctx, "cart"))
}

func TestGetLimiter_ReusesInstance(t *testing.T) {
	limiter := New(1, 1)

	first := limiter.getLimiter("cart")
	second := limiter.getLimiter("cart")
	assert.Same(t, first, second)
}
