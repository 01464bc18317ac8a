package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyCredential_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Correct password", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "correct-horse", string(hash), false)
		assert.True(t, v.OK)
		assert.False(t, v.ShouldUpgrade)
		assert.False(t, v.WeakCompare)
	})

	t.Run("Wrong password", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "battery-staple", string(hash), false)
		assert.False(t, v.OK)
		assert.False(t, v.WeakCompare)
	})
}

func TestVerifyCredential_LegacyPlaintext(t *testing.T) {
	t.Run("Match flags upgrade", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "oldpassword", "oldpassword", false)
		assert.True(t, v.OK)
		assert.True(t, v.ShouldUpgrade)
		assert.False(t, v.WeakCompare)
	})

	t.Run("Mismatch", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "wrong", "oldpassword", false)
		assert.False(t, v.OK)
		assert.False(t, v.ShouldUpgrade)
	})

	t.Run("Password that merely resembles a hash prefix is still plaintext", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "$2x$nothash", "$2x$nothash", false)
		assert.True(t, v.OK)
		assert.True(t, v.ShouldUpgrade)
	})
}

func TestVerifyCredential_MalformedHashFallsBackToEquality(t *testing.T) {
	// Looks like bcrypt but is truncated, so the library errors out instead of
	// reporting a mismatch.
	malformed := "$2a$10$tooshort"

	t.Run("Exact match accepted with weak flag", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", malformed, malformed, false)
		assert.True(t, v.OK)
		assert.True(t, v.WeakCompare)
		assert.False(t, v.ShouldUpgrade)
	})

	t.Run("Mismatch still rejected", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "anything-else", malformed, false)
		assert.False(t, v.OK)
		assert.True(t, v.WeakCompare)
	})
}

func TestVerifyCredential_EmptyStored(t *testing.T) {
	t.Run("Empty credential never matches", func(t *testing.T) {
		v := verifyCredential("pilot@example.com", "", "", false)
		assert.False(t, v.OK)
	})

	t.Run("Demo allowance outside production", func(t *testing.T) {
		v := verifyCredential(demoEmail, demoPassword, "", true)
		assert.True(t, v.OK)
		assert.True(t, v.Demo)
	})

	t.Run("Demo allowance disabled in production", func(t *testing.T) {
		v := verifyCredential(demoEmail, demoPassword, "", false)
		assert.False(t, v.OK)
	})

	t.Run("Demo allowance requires empty stored credential", func(t *testing.T) {
		v := verifyCredential(demoEmail, demoPassword, "realcredential", true)
		assert.False(t, v.OK)
		assert.False(t, v.Demo)
	})

	t.Run("Demo allowance only for the demo email", func(t *testing.T) {
		v := verifyCredential("other@example.com", demoPassword, "", true)
		assert.False(t, v.OK)
	})
}

func TestHashCredential_ProducesVerifiableHash(t *testing.T) {
	hash, err := hashCredential("some-password")
	require.NoError(t, err)
	assert.True(t, hashedCredential(hash))

	v := verifyCredential("pilot@example.com", "some-password", hash, false)
	assert.True(t, v.OK)
	assert.False(t, v.ShouldUpgrade)
}

func TestHashedCredential(t *testing.T) {
	assert.True(t, hashedCredential("$2a$10$abcdefghijklmnopqrstuv"))
	assert.True(t, hashedCredential("$2b$12$abcdefghijklmnopqrstuv"))
	assert.True(t, hashedCredential("$2y$10$abcdefghijklmnopqrstuv"))
	assert.False(t, hashedCredential("plaintext"))
	assert.False(t, hashedCredential("$2x$10$abcdefghijklmnopqrstuv"))
	assert.False(t, hashedCredential(""))
}
