package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // PBKDF2 iterations (OWASP minimum)
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
)

// Sealer protects values written to a store.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
	// Encrypted reports whether Seal actually encrypts.
	Encrypted() bool
	// Destroy clears key material.
	Destroy()
}

// KDF holds the parameters used to derive a key from a passphrase.
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates KDF parameters with a random salt.
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// DeriveKey derives an AES-256 key from a passphrase.
func (k *KDF) DeriveKey(passphrase []byte) []byte {
	return pbkdf2.Key(passphrase, k.Salt, k.Iterations, KeySize, sha256.New)
}

// NewSealer returns the Sealer for passphrase: identity for the empty
// passphrase, AES-256-GCM under the derived key otherwise.
func (k *KDF) NewSealer(passphrase []byte) Sealer {
	if len(passphrase) == 0 {
		return plaintext{}
	}
	return NewEncryptor(k.DeriveKey(passphrase))
}

// Encryptor provides AES-256-GCM authenticated encryption.
type Encryptor struct {
	key []byte
}

// NewEncryptor creates an encryptor that owns key.
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{key: key}
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext and returns nonce || ciphertext || tag.
func (e *Encryptor) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonce, err := GenerateRandom(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal.
func (e *Encryptor) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}

	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func (e *Encryptor) Encrypted() bool { return true }

// Destroy clears the encryptor's key from memory.
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// plaintext is the Sealer for the empty key.
type plaintext struct{}

func (plaintext) Seal(p []byte) ([]byte, error) {
	return append([]byte(nil), p...), nil
}

func (plaintext) Open(p []byte) ([]byte, error) {
	return append([]byte(nil), p...), nil
}

func (plaintext) Encrypted() bool { return false }

func (plaintext) Destroy() {}

// ClearBytes zeroes a byte slice.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes.
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
