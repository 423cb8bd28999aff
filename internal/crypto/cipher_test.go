package crypto

import (
	"crypto/rand"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/domain"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()

	key := make([]byte, keySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	c, err := NewWithKey(key)
	require.NoError(t, err)
	return c
}

func TestCipher_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCipher(t)

	in := map[string]any{"name": "Maria", "remote": true}
	token, err := c.Encrypt(in)
	require.NoError(t, err)
	assert.NotContains(t, token, "Maria")

	var out map[string]any
	require.NoError(t, c.Decrypt(token, &out))
	assert.Equal(t, "Maria", out["name"])
	assert.Equal(t, true, out["remote"])
}

func TestCipher_FreshNoncePerCall(t *testing.T) {
	t.Parallel()

	c := newTestCipher(t)

	a, err := c.Encrypt("same value")
	require.NoError(t, err)
	b, err := c.Encrypt("same value")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCipher_Decrypt_MalformedToken(t *testing.T) {
	t.Parallel()

	c := newTestCipher(t)

	var out any
	for _, token := range []string{"", "short", "not base64 !!!"} {
		err := c.Decrypt(token, &out)
		assert.ErrorIs(t, err, domain.ErrCiphertext, "token %q", token)
	}
}

func TestCipher_Decrypt_WrongKey(t *testing.T) {
	t.Parallel()

	token, err := newTestCipher(t).Encrypt("secret")
	require.NoError(t, err)

	var out any
	err = newTestCipher(t).Decrypt(token, &out)
	assert.ErrorIs(t, err, domain.ErrWrongKey)
	assert.NotErrorIs(t, err, domain.ErrCiphertext)
}

func TestNew_CreatesAndReusesKeyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "device.key")

	first, err := New(path, "")
	require.NoError(t, err)
	token, err := first.Encrypt("hello")
	require.NoError(t, err)

	// Reopening the same file must yield the same key.
	second, err := New(path, "")
	require.NoError(t, err)

	var out string
	require.NoError(t, second.Decrypt(token, &out))
	assert.Equal(t, "hello", out)
}

func TestNew_PassphraseIsPortable(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()

	deviceA, err := New(filepath.Join(dirA, "salt"), "correct horse battery")
	require.NoError(t, err)
	token, err := deviceA.Encrypt("roaming profile")
	require.NoError(t, err)

	// A different salt means a different key, even with the same passphrase.
	deviceB, err := New(filepath.Join(dirB, "salt"), "correct horse battery")
	require.NoError(t, err)
	var out string
	err = deviceB.Decrypt(token, &out)
	assert.ErrorIs(t, err, domain.ErrWrongKey)

	// Sharing the salt file restores portability.
	salt, err := New(filepath.Join(dirA, "salt"), "correct horse battery")
	require.NoError(t, err)
	require.NoError(t, salt.Decrypt(token, &out))
	assert.Equal(t, "roaming profile", out)
}

func TestNewWithKey_RejectsBadKeySize(t *testing.T) {
	t.Parallel()

	_, err := NewWithKey(make([]byte, 16))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrWrongKey))
}
