package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "v1:"
	nonceSize    = 24
)

// TokenCipher шифрує токени перед записом у сховище
type TokenCipher struct {
	key [32]byte
}

// NewTokenCipher створює шифр з ключем, похідним від секрету через HKDF.
// Порожній секрет означає зберігання без шифрування (повертається nil).
func NewTokenCipher(secret string) (*TokenCipher, error) {
	if secret == "" {
		return nil, nil
	}

	c := &TokenCipher{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("looply spotify token store"))
	if _, err := io.ReadFull(kdf, c.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}
	return c, nil
}

// Seal шифрує значення; nil шифр повертає значення без змін
func (c *TokenCipher) Seal(plain string) (string, error) {
	if c == nil || plain == "" {
		return plain, nil
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &c.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open розшифровує значення, записане через Seal
func (c *TokenCipher) Open(stored string) (string, error) {
	if c == nil || stored == "" {
		return stored, nil
	}
	if !strings.HasPrefix(stored, sealedPrefix) {
		return "", errors.New("token is not sealed")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed token: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", errors.New("sealed token is too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", errors.New("failed to open sealed token")
	}
	return string(plain), nil
}
