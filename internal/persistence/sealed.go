package persistence

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrSealBroken is returned when a stored value cannot be opened with the configured secret.
var ErrSealBroken = errors.New("sealed value cannot be opened")

const nonceSize = 24

// Sealed encrypts values at rest with NaCl secretbox before handing them to the inner store.
type Sealed struct {
	inner Store
	key   [32]byte
}

// NewSealed derives the box key from secret with HKDF-SHA256.
func NewSealed(inner Store, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("sealed store secret required")
	}
	s := &Sealed{inner: inner}
	kdf := hkdf.New(sha256.New, []byte(secret), []byte("jobit-session"), []byte("storage"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return s, nil
}

// Get opens the value stored under key.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	box, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", false, ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, opened := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !opened {
		return "", false, ErrSealBroken
	}
	return string(plain), true, nil
}

// Set seals value and stores it under key.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(box))
}

// Delete removes keys.
func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

// Ping delegates to the inner store.
func (s *Sealed) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close delegates to the inner store.
func (s *Sealed) Close() error { return s.inner.Close() }
