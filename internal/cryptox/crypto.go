// Package cryptox holds the passphrase crypto primitives: key derivation from
// the process-wide seed, passphrase minting, and authenticated encryption of
// passphrases at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
)

const (
	passphraseBytes = 16
	nonceSize       = 12
)

// DeriveKey derives the 32-byte AES key from the process-wide seed.
// The derivation is seed-only: every tenant's passphrase is encrypted under
// the same key.
func DeriveKey(seed string) []byte {
	key := sha256.Sum256([]byte(seed))
	return key[:]
}

// GeneratePassphrase mints a random url-safe passphrase with 16 bytes of
// entropy. It is returned to the user exactly once in plaintext.
func GeneratePassphrase() (string, error) {
	b := make([]byte, passphraseBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate passphrase")
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// EncryptPassphrase encrypts a passphrase with AES-GCM under the given key,
// using a fresh random nonce per call. The nonce is prepended to the
// ciphertext and the whole value is base64 encoded for storage as text.
func EncryptPassphrase(passphrase string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to create cipher")
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, "failed to create GCM")
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}

	ciphertext := aesgcm.Seal(nonce, nonce, []byte(passphrase), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPassphrase reverses EncryptPassphrase. GCM authentication means a
// wrong key (e.g. a rotated seed) or tampered ciphertext fails outright
// rather than yielding wrong plaintext.
func DecryptPassphrase(encrypted string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode encrypted passphrase")
	}
	if len(raw) < nonceSize {
		return "", errors.New("encrypted passphrase too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to create cipher")
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, "failed to create GCM")
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt passphrase")
	}
	return string(plaintext), nil
}
