package keys

import (
	"os"
	"sync"

	"github.com/go-errors/errors"
)

// ErrUnknownKey is returned by a Keystore that has no key for a reference.
var ErrUnknownKey = errors.New("unknown key reference")

// Keystore resolves a key reference to the SecretKey it names.
type Keystore interface {
	// SecretKey either returns the specified, non-nil key or an error.
	SecretKey(ref string) (*SecretKey, error)
}

// StaticKeystore is a Keystore over keys already held in memory.
type StaticKeystore map[string]*SecretKey

func (s StaticKeystore) SecretKey(ref string) (*SecretKey, error) {
	k, ok := s[ref]
	if !ok || k == nil {
		return nil, errors.WrapPrefix(ErrUnknownKey, ref, 0)
	}
	return k, nil
}

// EnvKeystore maps key references to environment variables containing
// Base64-encoded keys. A variable is read and parsed the first time its
// reference is requested; the parsed key is kept until Close.
type EnvKeystore struct {
	vars   map[string]string
	lookup func(string) (string, bool)

	mu    sync.Mutex
	cache map[string]*SecretKey
}

// NewEnvKeystore returns a keystore resolving each reference in vars to the
// environment variable it maps to.
func NewEnvKeystore(vars map[string]string) *EnvKeystore {
	return &EnvKeystore{
		vars:   vars,
		lookup: os.LookupEnv,
		cache:  make(map[string]*SecretKey),
	}
}

func (ks *EnvKeystore) SecretKey(ref string) (*SecretKey, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if k, ok := ks.cache[ref]; ok {
		return k, nil
	}
	name, ok := ks.vars[ref]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownKey, ref, 0)
	}
	encoded, ok := ks.lookup(name)
	if !ok || encoded == "" {
		return nil, errors.Errorf("key %s: environment variable %s is not set", ref, name)
	}
	k, err := ParseSecretKey(encoded)
	if err != nil {
		return nil, errors.WrapPrefix(err, "key "+ref, 0)
	}
	ks.cache[ref] = k
	return k, nil
}

// Close destroys every key the keystore has parsed.
func (ks *EnvKeystore) Close() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	for ref, k := range ks.cache {
		k.Destroy()
		delete(ks.cache, ref)
	}
	return nil
}
