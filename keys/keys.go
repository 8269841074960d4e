// Package keys contains the symmetric secret key under which commitments are
// computed, and the keystores through which a verifier resolves a key
// reference to such a key.
//
// A SecretKey is supplied from outside (an external secret store, usually as
// Base64 text). This package never persists keys; GenerateKey exists for
// tests and tooling only.
package keys

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/go-errors/errors"
)

// KeySize is the length in bytes of a SecretKey.
const KeySize = 32

var (
	// ErrKeyDestroyed is returned when a key is used after Destroy.
	ErrKeyDestroyed = errors.New("secret key has been destroyed")
	// ErrKeyNotSerializable is returned by the marshaling methods of SecretKey.
	ErrKeyNotSerializable = errors.New("secret keys cannot be serialized")
)

// KeyFormatError is returned when key material is not valid Base64 or does
// not decode to exactly KeySize bytes.
type KeyFormatError struct {
	// Length is the number of key bytes received, or -1 if the input could
	// not be decoded at all.
	Length int
	Reason string
}

func (e *KeyFormatError) Error() string {
	if e.Length < 0 {
		return "invalid secret key: " + e.Reason
	}
	return fmt.Sprintf("invalid secret key: %s (got %d bytes, need %d)", e.Reason, e.Length, KeySize)
}

// noCopy makes go vet's copylocks check complain about copies of SecretKey.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SecretKey owns a KeySize byte buffer. It is only handled by pointer, its
// bytes are never exposed except to the callback passed to Use, and Destroy
// overwrites the buffer with zeroes.
type SecretKey struct {
	_ noCopy

	mu  sync.RWMutex
	buf []byte
}

// NewSecretKey returns a SecretKey holding a copy of b.
func NewSecretKey(b []byte) (*SecretKey, error) {
	if len(b) != KeySize {
		return nil, errors.Wrap(&KeyFormatError{Length: len(b), Reason: "wrong length"}, 0)
	}
	buf := make([]byte, KeySize)
	copy(buf, b)
	return &SecretKey{buf: buf}, nil
}

// ParseSecretKey decodes standard Base64 text into a SecretKey.
func ParseSecretKey(encoded string) (*SecretKey, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(&KeyFormatError{Length: -1, Reason: "not valid base64"}, 0)
	}
	defer wipe(decoded)
	return NewSecretKey(decoded)
}

// GenerateKey returns a fresh random key. Production keys are provisioned
// externally; this is meant for tests and development tooling.
func GenerateKey() (*SecretKey, error) {
	buf := make([]byte, KeySize)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.WrapPrefix(err, "cannot generate secret key", 0)
	}
	return &SecretKey{buf: buf}, nil
}

// Use calls fn with the key bytes. fn must not retain or modify the slice.
func (k *SecretKey) Use(fn func(key []byte)) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.buf == nil {
		return ErrKeyDestroyed
	}
	fn(k.buf)
	return nil
}

// Destroy zeroes the key. Later calls to Use fail with ErrKeyDestroyed.
func (k *SecretKey) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()
	wipe(k.buf)
	k.buf = nil
}

// Destroyed reports whether Destroy has been called.
func (k *SecretKey) Destroyed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.buf == nil
}

func (k *SecretKey) String() string {
	return "keys.SecretKey(redacted)"
}

func (k *SecretKey) GoString() string {
	return k.String()
}

// MarshalText always fails, so that a key can never end up in an encoded document.
func (k *SecretKey) MarshalText() ([]byte, error) {
	return nil, ErrKeyNotSerializable
}

// MarshalJSON always fails.
func (k *SecretKey) MarshalJSON() ([]byte, error) {
	return nil, ErrKeyNotSerializable
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
