package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2HashAndVerify(t *testing.T) {
	h, err := NewPasswordHasher(AlgoPBKDF2, 1000, 0)
	require.NoError(t, err)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "pbkdf2:sha256:1000$"))
	assert.NotEqual(t, first, second, "each hash must use a fresh salt")
	assert.NotContains(t, first, "secret123")

	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
	assert.False(t, h.Verify("secret124", first))
}

func TestBcryptHashAndVerify(t *testing.T) {
	h, err := NewPasswordHasher(AlgoBcrypt, 0, 4)
	require.NoError(t, err)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, h.Verify("secret123", hash))
	assert.False(t, h.Verify("wrong", hash))

	// a pbkdf2 hasher still accepts bcrypt hashes
	other, err := NewPasswordHasher(AlgoPBKDF2, 1000, 0)
	require.NoError(t, err)
	assert.True(t, other.Verify("secret123", hash))
}

func TestVerifyMalformedHashes(t *testing.T) {
	h, err := NewPasswordHasher(AlgoPBKDF2, 1000, 0)
	require.NoError(t, err)

	for _, hash := range []string{
		"",
		"plaintext",
		"pbkdf2:sha256:",
		"pbkdf2:sha256:abc$salt$00",
		"pbkdf2:sha256:-1$salt$00",
		"pbkdf2:sha256:1000$salt$zz",
		"pbkdf2:sha256:1000$salt",
		"$2a$broken",
	} {
		assert.False(t, h.Verify("secret123", hash), hash)
	}
}

func TestNewPasswordHasherRejectsBadConfig(t *testing.T) {
	_, err := NewPasswordHasher("md5", 1000, 10)
	assert.Error(t, err)

	_, err = NewPasswordHasher(AlgoPBKDF2, 0, 10)
	assert.Error(t, err)

	_, err = NewPasswordHasher(AlgoBcrypt, 1000, 99)
	assert.Error(t, err)
}
