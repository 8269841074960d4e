package replay

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Logger.SetLevel(logrus.FatalLevel)
}

var (
	proofA = bytes.Repeat([]byte{1}, 32)
	proofB = bytes.Repeat([]byte{2}, 32)
	salt   = bytes.Repeat([]byte{3}, 32)
)

func TestDigest(t *testing.T) {
	mh, err := Digest(proofA, salt)
	require.NoError(t, err)

	decoded, err := multihash.Decode(mh)
	require.NoError(t, err)
	assert.Equal(t, uint64(multihash.SHA2_256), decoded.Code)
	assert.Equal(t, 32, decoded.Length)

	again, err := Digest(proofA, salt)
	require.NoError(t, err)
	assert.Equal(t, mh, again)

	other, err := Digest(proofB, salt)
	require.NoError(t, err)
	assert.NotEqual(t, mh, other)

	// Moving bytes between proof and salt changes the digest.
	shifted, err := Digest(proofA[:31], append([]byte{1}, salt...))
	require.NoError(t, err)
	assert.NotEqual(t, mh, shifted)
}

func testGuard(t *testing.T, g Guard) {
	replayed, err := g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.False(t, replayed)

	replayed, err = g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.True(t, replayed)

	replayed, err = g.CheckAndMark(proofB, salt)
	require.NoError(t, err)
	require.False(t, replayed)
}

func testGuardAll(t *testing.T, g Guard) {
	proofC := bytes.Repeat([]byte{4}, 32)

	replayed, err := g.CheckAndMark(proofB, salt)
	require.NoError(t, err)
	require.False(t, replayed)

	// proofB is used, so proofA is not marked either.
	replayed, err = g.CheckAndMarkAll([]Pair{{proofA, salt}, {proofB, salt}})
	require.NoError(t, err)
	require.True(t, replayed)

	replayed, err = g.CheckAndMarkAll([]Pair{{proofA, salt}, {proofC, salt}, {proofA, salt}})
	require.NoError(t, err)
	require.True(t, replayed)

	replayed, err = g.CheckAndMarkAll([]Pair{{proofA, salt}, {proofC, salt}})
	require.NoError(t, err)
	require.False(t, replayed)

	replayed, err = g.CheckAndMark(proofC, salt)
	require.NoError(t, err)
	require.True(t, replayed)
}

func TestMemoryGuardAll(t *testing.T) {
	g := NewMemoryGuard(0)
	testGuardAll(t, g)
	require.Equal(t, 3, g.Len())
}

func TestBadgerGuardAll(t *testing.T) {
	g, err := OpenBadgerGuard("", time.Hour)
	require.NoError(t, err)
	defer g.Close()

	testGuardAll(t, g)
}

func TestMemoryGuard(t *testing.T) {
	g := NewMemoryGuard(0)
	testGuard(t, g)
	require.Equal(t, 2, g.Len())
	require.NoError(t, g.Close())
	require.Equal(t, 0, g.Len())
}

func TestMemoryGuardExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard(time.Hour)
	g.now = func() time.Time { return now }

	replayed, err := g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.False(t, replayed)

	now = now.Add(59 * time.Minute)
	replayed, err = g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.True(t, replayed)

	now = now.Add(2 * time.Minute)
	replayed, err = g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.False(t, replayed)

	// The sweep removed the stale entry before re-marking it.
	require.Equal(t, 1, g.Len())
}

func TestBadgerGuard(t *testing.T) {
	g, err := OpenBadgerGuard("", time.Hour)
	require.NoError(t, err)
	defer g.Close()

	testGuard(t, g)
}

func TestBadgerGuardPersists(t *testing.T) {
	dir := t.TempDir()

	g, err := OpenBadgerGuard(dir, 0)
	require.NoError(t, err)
	replayed, err := g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.False(t, replayed)
	require.NoError(t, g.Close())

	g, err = OpenBadgerGuard(dir, 0)
	require.NoError(t, err)
	defer g.Close()
	replayed, err = g.CheckAndMark(proofA, salt)
	require.NoError(t, err)
	require.True(t, replayed)
}

func TestGuardsConcurrentMarking(t *testing.T) {
	bg, err := OpenBadgerGuard("", 0)
	require.NoError(t, err)
	defer bg.Close()

	for name, g := range map[string]Guard{"memory": NewMemoryGuard(0), "badger": bg} {
		var fresh int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				replayed, err := g.CheckAndMark(proofB, salt)
				assert.NoError(t, err)
				if !replayed {
					atomic.AddInt32(&fresh, 1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), fresh, name)
	}
}
