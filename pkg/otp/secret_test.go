package otp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-totp/pkg/base32"
)

type weakRandom struct{}

func (weakRandom) Fill(buf []byte) error {
	for i := range buf {
		buf[i] = byte(i)
	}
	return nil
}

func (weakRandom) Weak() bool { return true }

func TestCreateSecretLengths(t *testing.T) {
	for length := MinSecretLength; length <= MaxSecretLength; length++ {
		secret, err := CreateSecret(length)
		require.NoError(t, err, "length %d", length)
		require.Len(t, secret, length)

		for _, c := range secret {
			require.True(t, strings.ContainsRune(base32.Alphabet, c), "symbol %q", c)
		}

		key, err := base32.Decode(secret)
		require.NoError(t, err, "length %d: %s", length, secret)
		assert.Len(t, key, (length+7)/8*5)
	}
}

func TestCreateSecretInvalidLength(t *testing.T) {
	for _, length := range []int{-1, 0, 15, 129, 1024} {
		secret, err := CreateSecret(length)
		assert.ErrorIs(t, err, ErrInvalidLength, "length %d", length)
		assert.Empty(t, secret)
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, DefaultSecretLength)
	assert.NotEqual(t, a, b)
}

func TestCreateSecretMapsLowFiveBits(t *testing.T) {
	src := RandomSourceFunc(func(buf []byte) error {
		for i := range buf {
			// high bits must be ignored
			buf[i] = byte(i) | 0xE0
		}
		return nil
	})

	secret, err := NewSecretGenerator(src).CreateSecret(32)
	require.NoError(t, err)
	assert.Equal(t, base32.Alphabet, secret)
}

func TestCreateSecretNoSecureSource(t *testing.T) {
	var zero SecretGenerator
	_, err := zero.CreateSecret(16)
	assert.ErrorIs(t, err, ErrNoSecureRandomSource)

	var nilGen *SecretGenerator
	_, err = nilGen.CreateSecret(16)
	assert.ErrorIs(t, err, ErrNoSecureRandomSource)

	_, err = NewSecretGenerator(weakRandom{}).CreateSecret(16)
	assert.ErrorIs(t, err, ErrNoSecureRandomSource)

	failing := RandomSourceFunc(func([]byte) error { return errors.New("entropy pool unavailable") })
	_, err = NewSecretGenerator(failing).CreateSecret(16)
	assert.ErrorIs(t, err, ErrNoSecureRandomSource)
	assert.Contains(t, err.Error(), "entropy pool unavailable")
}

func TestCreateSecretLengthCheckedFirst(t *testing.T) {
	var zero SecretGenerator
	_, err := zero.CreateSecret(8)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestCreatedSecretVerifies(t *testing.T) {
	e := DefaultEngine()
	for _, length := range []int{16, 17, 19, 23, 64, 127, 128} {
		secret, err := CreateSecret(length)
		require.NoError(t, err)

		code, err := e.GenerateCode(secret, 42)
		require.NoError(t, err)
		assert.True(t, e.VerifyAt(secret, code, 0, 42), "length %d", length)
	}
}
