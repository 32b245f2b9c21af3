// Package crypto seals configuration secrets so they can sit in config files
// and environment variables without being readable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// SealedPrefix marks a value produced by Seal.
const SealedPrefix = "enc:"

var (
	ErrInvalidKey        = errors.New("crypto: invalid encryption key")
	ErrInvalidCipherText = errors.New("crypto: invalid cipher text")
	ErrDecryptionFailed  = errors.New("crypto: decryption failed")
)

func newAEAD(key string) (cipher.AEAD, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	derived := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(key), nil, []byte("taskpulse config secret"))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plain with AES-256-GCM and returns "enc:" + base64(nonce|ct).
func Seal(plain, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypto: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return SealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged, so
// plain-text secrets keep working.
func Open(value, key string) (string, error) {
	encoded, ok := strings.CutPrefix(value, SealedPrefix)
	if !ok {
		return value, nil
	}
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(data) < aead.NonceSize() {
		return "", ErrInvalidCipherText
	}
	nonce, ct := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// GenerateKey returns n random bytes, base64url encoded, for API keys and
// encryption keys.
func GenerateKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
