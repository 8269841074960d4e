package replay

import (
	"sync"
	"time"

	"github.com/multiformats/go-multihash"
)

// MemoryGuard keeps accepted pairs in a map. Entries expire after the TTL
// given to NewMemoryGuard; a zero TTL keeps them for the guard's lifetime.
type MemoryGuard struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	seen      map[string]time.Time // digest -> expiry
	lastSweep time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

func (g *MemoryGuard) CheckAndMark(proof, salt []byte) (bool, error) {
	return g.CheckAndMarkAll([]Pair{{Proof: proof, Salt: salt}})
}

func (g *MemoryGuard) CheckAndMarkAll(pairs []Pair) (bool, error) {
	mhs, dup, err := digests(pairs)
	if err != nil {
		return false, err
	}
	if dup {
		Logger.Debug("pair occurs twice in batch")
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	for _, mh := range mhs {
		if g.marked(mh, now) {
			Logger.WithField("digest", mh.B58String()).Debug("replayed proof")
			return true, nil
		}
	}
	for _, mh := range mhs {
		g.seen[string(mh)] = now.Add(g.ttl)
	}
	return false, nil
}

func (g *MemoryGuard) marked(mh multihash.Multihash, now time.Time) bool {
	expiry, ok := g.seen[string(mh)]
	return ok && (g.ttl == 0 || now.Before(expiry))
}

// Len returns the number of pairs currently held.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

func (g *MemoryGuard) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = make(map[string]time.Time)
	return nil
}

// sweep drops expired entries, at most once per TTL.
func (g *MemoryGuard) sweep(now time.Time) {
	if g.ttl == 0 || now.Sub(g.lastSweep) < g.ttl {
		return
	}
	for key, expiry := range g.seen {
		if !now.Before(expiry) {
			delete(g.seen, key)
		}
	}
	g.lastSweep = now
}
