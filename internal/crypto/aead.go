package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the size of derived and master keys.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the size of a ChaCha20-Poly1305 nonce.
	NonceSize = chacha20poly1305.NonceSize
	// TagSize is the size of the authentication tag appended to ciphertexts.
	TagSize = chacha20poly1305.Overhead
	// SaltSize is the size of a vault salt.
	SaltSize = 32
)

// ErrAuthentication is the only error Decrypt returns. It does not tell a
// wrong key apart from damaged input.
var ErrAuthentication = errors.New("crypto: message authentication failed")

// Encrypt seals plaintext under key with nonce. The result is
// len(plaintext)+TagSize bytes. The nonce must never be reused with key.
func Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}

	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return nil, ErrAuthentication
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrAuthentication
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// Seal encrypts plaintext under key with a freshly generated nonce.
func Seal(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	nonce, err = NewNonce()
	if err != nil {
		return nil, nil, err
	}
	ciphertext, err = Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return nonce, ciphertext, nil
}

// RandomBytes returns n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// NewNonce returns a random nonce. Nonces are random rather than counted
// because the master key lives for the whole life of the vault.
func NewNonce() ([]byte, error) {
	return RandomBytes(NonceSize)
}

// NewSalt returns a random vault salt.
func NewSalt() ([]byte, error) {
	return RandomBytes(SaltSize)
}

// NewMasterKey returns a random master key. The caller must wipe it.
func NewMasterKey() ([]byte, error) {
	return RandomBytes(KeySize)
}

// EncodeField packs nonce and ciphertext into a text value.
func EncodeField(nonce, ciphertext []byte) string {
	buf := make([]byte, 0, len(nonce)+len(ciphertext))
	buf = append(buf, nonce...)
	buf = append(buf, ciphertext...)
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeField splits a value written by EncodeField.
func DecodeField(s string) (nonce, ciphertext []byte, err error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(buf) < NonceSize+TagSize {
		return nil, nil, ErrAuthentication
	}
	return buf[:NonceSize], buf[NonceSize:], nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
