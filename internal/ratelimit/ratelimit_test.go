package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	// The burst is available immediately.
	assert.True(t, krl.Allow("1.2.3.4"))
	assert.True(t, krl.Allow("1.2.3.4"))
	assert.True(t, krl.Allow("1.2.3.4"))

	// Fourth request in the same instant exceeds the burst.
	assert.False(t, krl.Allow("1.2.3.4"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("1.2.3.4"))
	assert.False(t, krl.Allow("1.2.3.4"))

	// A different key has its own bucket.
	assert.True(t, krl.Allow("5.6.7.8"))
}

func TestStop_Idempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	assert.NotPanics(t, func() { krl.Stop() })
}
