package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowEnforcesBurstPerIP(t *testing.T) {
	rl := newIPRateLimiter(1, 2)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// a different client has its own bucket
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestAllowEvictsIdleClients(t *testing.T) {
	rl := newIPRateLimiter(1, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// age the entry past the eviction window and force a sweep
	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * evictAfter)
	rl.lastSweep = time.Now().Add(-2 * evictAfter)
	rl.mu.Unlock()

	assert.True(t, rl.allow("10.0.0.2"))

	rl.mu.Lock()
	_, stale := rl.clients["10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, stale)

	// the evicted client starts over with a fresh bucket
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestAllowSweepKeepsActiveClients(t *testing.T) {
	rl := newIPRateLimiter(1, 5)

	assert.True(t, rl.allow("10.0.0.1"))

	rl.mu.Lock()
	rl.lastSweep = time.Now().Add(-2 * evictAfter)
	rl.mu.Unlock()

	assert.True(t, rl.allow("10.0.0.2"))

	rl.mu.Lock()
	_, kept := rl.clients["10.0.0.1"]
	rl.mu.Unlock()
	assert.True(t, kept)
}
