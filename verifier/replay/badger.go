package replay

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-errors/errors"
)

var keyPrefix = []byte("replay/")

// BadgerGuard persists accepted pairs in a badger database, so that replays
// are detected across restarts. Entries are written with the guard's TTL.
type BadgerGuard struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerGuard opens (or creates) the database in dir. An empty dir opens
// an in-memory database.
func OpenBadgerGuard(dir string, ttl time.Duration) (*BadgerGuard, error) {
	opts := badger.DefaultOptions(dir).WithLogger(Logger)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.WrapPrefix(err, "cannot open replay database", 0)
	}
	return &BadgerGuard{db: db, ttl: ttl}, nil
}

func (g *BadgerGuard) CheckAndMark(proof, salt []byte) (bool, error) {
	return g.CheckAndMarkAll([]Pair{{Proof: proof, Salt: salt}})
}

// CheckAndMarkAll checks and marks all pairs in one transaction.
func (g *BadgerGuard) CheckAndMarkAll(pairs []Pair) (bool, error) {
	mhs, dup, err := digests(pairs)
	if err != nil {
		return false, err
	}
	if dup {
		Logger.Debug("pair occurs twice in batch")
		return true, nil
	}

	keys := make([][]byte, len(mhs))
	for i, mh := range mhs {
		keys[i] = append(append([]byte{}, keyPrefix...), mh...)
	}

	var replayed bool
	err = g.db.Update(func(txn *badger.Txn) error {
		for i, key := range keys {
			_, err := txn.Get(key)
			switch {
			case err == nil:
				Logger.WithField("digest", mhs[i].B58String()).Debug("replayed proof")
				replayed = true
				return nil
			case errors.Is(err, badger.ErrKeyNotFound):
			default:
				return err
			}
		}
		for _, key := range keys {
			entry := badger.NewEntry(key, []byte{1})
			if g.ttl > 0 {
				entry = entry.WithTTL(g.ttl)
			}
			if err := txn.SetEntry(entry); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		// A concurrent transaction marked one of the pairs first.
		replayed, err = true, nil
	}
	if err != nil {
		return false, errors.WrapPrefix(err, "replay database", 0)
	}
	return replayed, nil
}

func (g *BadgerGuard) Close() error {
	return g.db.Close()
}
