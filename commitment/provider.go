// Package commitment implements the keyed commitment primitive: random salts,
// HMAC-SHA256 over a canonical message under a secret key, and constant-time
// comparison of the resulting proofs.
//
// Salts and proofs cross package boundaries as standard Base64 text. The
// provider knows nothing about what is being committed to.
package commitment

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"

	"github.com/privacybydesign/commitproof/keys"

	"github.com/go-errors/errors"
	sha256 "github.com/minio/sha256-simd"
)

const (
	// SaltSize is the number of random bytes in a salt.
	SaltSize = 32
	// MACSize is the length of an HMAC-SHA256 output.
	MACSize = sha256.Size
)

// ErrNilKey is returned when a Provider is constructed without a key.
var ErrNilKey = errors.New("commitment provider requires a secret key")

// Provider computes commitments under one SecretKey, which it owns for its
// lifetime. A Provider is safe for concurrent use.
type Provider struct {
	key *keys.SecretKey
}

// NewProvider returns a Provider owning key. Closing the provider destroys the key.
func NewProvider(key *keys.SecretKey) (*Provider, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	return &Provider{key: key}, nil
}

// NewProviderFromBase64 parses a Base64 key, as handed out by an external
// secret store, and returns a Provider owning it.
func NewProviderFromBase64(encoded string) (*Provider, error) {
	key, err := keys.ParseSecretKey(encoded)
	if err != nil {
		return nil, err
	}
	return NewProvider(key)
}

// GenerateSalt returns SaltSize bytes from the platform CSPRNG, Base64 encoded.
func (p *Provider) GenerateSalt() string {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		panic(err) // crypto/rand does not fail on supported platforms
	}
	return base64.StdEncoding.EncodeToString(salt)
}

// Sum returns the raw HMAC-SHA256 of message under the provider's key. It
// fails only if the key has been destroyed.
func (p *Provider) Sum(message []byte) ([]byte, error) {
	var sum []byte
	err := p.key.Use(func(key []byte) {
		mac := hmac.New(sha256.New, key)
		mac.Write(message)
		sum = mac.Sum(nil)
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// ComputeMAC returns the Base64 HMAC-SHA256 of the UTF-8 bytes of message.
// Using a Provider after Close is a programming error and panics.
func (p *Provider) ComputeMAC(message string) string {
	sum, err := p.Sum([]byte(message))
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(sum)
}

// ConstantTimeEquals is the package-level ConstantTimeEquals.
func (p *Provider) ConstantTimeEquals(a, b string) bool {
	return ConstantTimeEquals(a, b)
}

// Close destroys the key.
func (p *Provider) Close() {
	p.key.Destroy()
}

// ConstantTimeEquals reports whether a and b are equal. Strings of different
// length compare unequal immediately, which leaks their lengths; for equal
// lengths every byte is inspected regardless of where a difference occurs.
func ConstantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
