package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKDF(t *testing.T) *KDF {
	t.Helper()
	kdf, err := NewKDF()
	require.NoError(t, err)
	kdf.Iterations = 1000
	return kdf
}

func TestSealOpenRoundTrip(t *testing.T) {
	kdf := testKDF(t)
	sealer := kdf.NewSealer([]byte("correct"))
	defer sealer.Destroy()

	sealed, err := sealer.Seal([]byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, sealer.Encrypted())
	assert.False(t, bytes.Contains(sealed, []byte("hunter2")))

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), opened)
}

func TestOpenWithWrongPassphraseFails(t *testing.T) {
	kdf := testKDF(t)
	sealed, err := kdf.NewSealer([]byte("correct")).Seal([]byte("data"))
	require.NoError(t, err)

	_, err = kdf.NewSealer([]byte("wrong")).Open(sealed)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestOpenShortCiphertext(t *testing.T) {
	_, err := testKDF(t).NewSealer([]byte("k")).Open([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestEmptyPassphraseIsPlaintext(t *testing.T) {
	sealer := testKDF(t).NewSealer(nil)
	assert.False(t, sealer.Encrypted())

	sealed, err := sealer.Seal([]byte("visible"))
	require.NoError(t, err)
	assert.Equal(t, []byte("visible"), sealed)
}

func TestNoncesDiffer(t *testing.T) {
	sealer := testKDF(t).NewSealer([]byte("k"))
	a, err := sealer.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := sealer.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestClearBytes(t *testing.T) {
	b := []byte("secret")
	ClearBytes(b)
	assert.Equal(t, make([]byte, 6), b)
}
