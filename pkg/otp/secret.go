package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-totp/pkg/base32"
)

const (
	// MinSecretLength is the shortest secret CreateSecret produces.
	MinSecretLength = 16
	// MaxSecretLength is the longest secret CreateSecret produces.
	MaxSecretLength = 128
	// DefaultSecretLength is the secret length used by GenerateSecret.
	DefaultSecretLength = 16
)

// RandomSource fills buffers with random bytes. Implementations must be
// cryptographically secure; a source that knows it is not should also
// implement Weak and return true so the generator refuses it.
type RandomSource interface {
	Fill(buf []byte) error
}

// RandomSourceFunc adapts a function to the RandomSource interface.
type RandomSourceFunc func(buf []byte) error

// Fill calls f.
func (f RandomSourceFunc) Fill(buf []byte) error {
	return f(buf)
}

type weakSource interface {
	Weak() bool
}

// CryptoRandom is the RandomSource backed by crypto/rand.
type CryptoRandom struct{}

// Fill reads len(buf) bytes from crypto/rand.Reader.
func (CryptoRandom) Fill(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrNoSecureRandomSource, err)
	}
	return nil
}

// SecretGenerator creates base32 shared secrets. The zero value has no
// random source and fails every call with ErrNoSecureRandomSource.
type SecretGenerator struct {
	source RandomSource
}

// NewSecretGenerator returns a generator drawing from src, or from
// crypto/rand when src is nil.
func NewSecretGenerator(src RandomSource) *SecretGenerator {
	if src == nil {
		src = CryptoRandom{}
	}
	return &SecretGenerator{source: src}
}

var defaultGenerator = NewSecretGenerator(nil)

// CreateSecret returns a secret of length base32 symbols. Each symbol is
// chosen by the low 5 bits of one random byte; no padding is emitted.
func (g *SecretGenerator) CreateSecret(length int) (string, error) {
	if length < MinSecretLength || length > MaxSecretLength {
		return "", fmt.Errorf("%w: %d is outside [%d, %d]",
			ErrInvalidLength, length, MinSecretLength, MaxSecretLength)
	}

	if g == nil || g.source == nil {
		return "", ErrNoSecureRandomSource
	}
	if w, ok := g.source.(weakSource); ok && w.Weak() {
		return "", fmt.Errorf("%w: source is not cryptographically secure", ErrNoSecureRandomSource)
	}

	random := make([]byte, length)
	defer clear(random)
	if err := g.source.Fill(random); err != nil {
		if errors.Is(err, ErrNoSecureRandomSource) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrNoSecureRandomSource, err)
	}

	secret := make([]byte, length)
	for i, b := range random {
		secret[i] = base32.Alphabet[b&0x1F]
	}

	return string(secret), nil
}

// CreateSecret returns a secret of length symbols drawn from crypto/rand.
func CreateSecret(length int) (string, error) {
	return defaultGenerator.CreateSecret(length)
}

// GenerateSecret generates a cryptographically random secret key of
// DefaultSecretLength symbols, suitable for use in the Config.Secret field.
func GenerateSecret() (string, error) {
	return defaultGenerator.CreateSecret(DefaultSecretLength)
}
