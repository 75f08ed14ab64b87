// Package envelope wraps an opaque byte payload in symmetric encryption.
// The on-disk layout is salt || nonce || ciphertext: the salt feeds PBKDF2
// key derivation from the configured passphrase, the nonce feeds AES-GCM.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 100_000
)

// ErrDecrypt is returned for any undecryptable payload: wrong passphrase,
// truncated data, or tampered ciphertext. The cause is deliberately opaque.
var ErrDecrypt = errors.New("envelope: cannot decrypt payload")

// Envelope encrypts and decrypts opaque byte payloads.
type Envelope interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}

// AESGCM is an Envelope using AES-256-GCM with a passphrase-derived key.
type AESGCM struct {
	passphrase []byte
}

// New returns an AES-GCM envelope keyed by the given passphrase.
func New(passphrase string) *AESGCM {
	return &AESGCM{passphrase: []byte(passphrase)}
}

// Encrypt seals plaintext under a fresh salt and nonce.
func (e *AESGCM) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("envelope: generate salt: %w", err)
	}

	gcm, err := e.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("envelope: generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt under the same passphrase.
func (e *AESGCM) Decrypt(data []byte) ([]byte, error) {
	if len(data) < saltSize {
		return nil, ErrDecrypt
	}
	salt, rest := data[:saltSize], data[saltSize:]

	gcm, err := e.aead(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return nil, ErrDecrypt
	}
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func (e *AESGCM) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(e.passphrase, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
