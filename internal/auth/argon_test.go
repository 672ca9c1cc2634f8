package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	// PHC format: $argon2id$v=..$m=..,t=..,p=..$salt$hash
	parts := strings.Split(hash, "$")
	assert.Len(t, parts, 6)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("samepassword")
	require.NoError(t, err)
	h2, err := HashPassword("samepassword")
	require.NoError(t, err)

	// Per-record salts mean equal passwords never hash equally.
	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_LengthPolicy(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", MinPasswordLength))
	assert.NoError(t, err)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mysecret1")
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "mysecret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "mysecret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=65536"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.hash, "whatever1")
			// Malformed stored hashes verify false, never error.
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestVerifyPassword_OversizedInput(t *testing.T) {
	hash, err := HashPassword("mysecret1")
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, strings.Repeat("x", MaxPasswordLength+1))
	assert.NoError(t, err)
	assert.False(t, ok)
}
