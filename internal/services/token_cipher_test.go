package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCipher_SealOpen(t *testing.T) {
	cipher, err := NewTokenCipher("secret")
	require.NoError(t, err)

	sealed, err := cipher.Seal("BQD-access-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "BQD-access-token")

	again, err := cipher.Seal("BQD-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce is random")

	plain, err := cipher.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "BQD-access-token", plain)
}

func TestTokenCipher_WrongKey(t *testing.T) {
	a, err := NewTokenCipher("secret-a")
	require.NoError(t, err)
	b, err := NewTokenCipher("secret-b")
	require.NoError(t, err)

	sealed, err := a.Seal("token")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.Error(t, err)

	_, err = a.Open("v1:short")
	assert.Error(t, err)
}

func TestTokenCipher_Disabled(t *testing.T) {
	cipher, err := NewTokenCipher("")
	require.NoError(t, err)
	assert.Nil(t, cipher)

	sealed, err := cipher.Seal("token")
	require.NoError(t, err)
	assert.Equal(t, "token", sealed)

	plain, err := cipher.Open("token")
	require.NoError(t, err)
	assert.Equal(t, "token", plain)
}
