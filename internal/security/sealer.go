package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealedPrefix = "v1."
	keyInfo      = "model-market session values"
)

// ErrEmptySecret indicates no sealing secret was configured.
var ErrEmptySecret = errors.New("security: empty secret")

// ErrNotSealed indicates the value was not produced by Seal.
var ErrNotSealed = errors.New("security: value is not sealed")

// Sealer encrypts session values at rest with XChaCha20-Poly1305.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a sealing key from secret.
func NewSealer(secret string) (*Sealer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, errRead := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); errRead != nil {
		return nil, fmt.Errorf("security: derive key: %w", errRead)
	}
	aead, errAEAD := chacha20poly1305.NewX(key)
	if errAEAD != nil {
		return nil, fmt.Errorf("security: init cipher: %w", errAEAD)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext and returns a printable token.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if s == nil || s.aead == nil {
		return "", fmt.Errorf("security: sealer not initialized")
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, errRand := rand.Read(nonce); errRand != nil {
		return "", fmt.Errorf("security: read nonce: %w", errRand)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(value string) (string, error) {
	if s == nil || s.aead == nil {
		return "", fmt.Errorf("security: sealer not initialized")
	}
	if !strings.HasPrefix(value, sealedPrefix) {
		return "", ErrNotSealed
	}
	raw, errDecode := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if errDecode != nil {
		return "", fmt.Errorf("security: decode value: %w", errDecode)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", fmt.Errorf("security: value too short")
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, errOpen := s.aead.Open(nil, nonce, ciphertext, nil)
	if errOpen != nil {
		return "", fmt.Errorf("security: open value: %w", errOpen)
	}
	return string(plaintext), nil
}
