// Package crypto encrypts user content at rest and inside portable backups.
//
// Values are JSON-encoded, sealed with AES-256-GCM under a per-device key and
// serialized as base64url(nonce || ciphertext). The key either lives as raw
// bytes in a key file, or is derived from a passphrase with PBKDF2 over a
// persisted random salt so that backups restore on any device sharing the
// passphrase.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	"curriculos/internal/domain"
)

const (
	keySize  = 32
	saltSize = 16

	// PBKDF2-SHA256 iteration count for passphrase-derived keys.
	pbkdf2Iterations = 310_000
)

// Cipher seals and opens JSON values with a single symmetric key.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from the key material at keyPath.
//
// With an empty passphrase the file holds the raw 32-byte key; with a
// passphrase it holds only a random salt and the key is derived on every
// start. Missing files are created with fresh random material (0600).
func New(keyPath, passphrase string) (*Cipher, error) {
	var key []byte
	if passphrase == "" {
		raw, err := loadOrCreate(keyPath, keySize)
		if err != nil {
			return nil, fmt.Errorf("key file: %w", err)
		}
		key = raw
	} else {
		salt, err := loadOrCreate(keyPath, saltSize)
		if err != nil {
			return nil, fmt.Errorf("salt file: %w", err)
		}
		key = pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
	}
	return NewWithKey(key)
}

// NewWithKey builds a Cipher from an existing 32-byte key.
func NewWithKey(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt JSON-encodes v and returns the sealed token.
func (c *Cipher) Encrypt(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt and unmarshals it into out.
//
// A token that cannot be decoded at all yields domain.ErrCiphertext; a
// well-formed token sealed under a different key yields domain.ErrWrongKey.
func (c *Cipher) Decrypt(token string, out any) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("decode token: %w", domain.ErrCiphertext)
	}
	if len(raw) < c.aead.NonceSize() {
		return fmt.Errorf("token too short: %w", domain.ErrCiphertext)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return fmt.Errorf("open: %w", domain.ErrWrongKey)
	}
	if err := json.Unmarshal(plain, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// loadOrCreate reads size bytes from path, generating and persisting fresh
// random material if the file does not exist yet.
func loadOrCreate(path string, size int) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		if len(raw) != size {
			return nil, fmt.Errorf("%s: expected %d bytes, got %d", path, size, len(raw))
		}
		return raw, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	raw = make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	return raw, nil
}
