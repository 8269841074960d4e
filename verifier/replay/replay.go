// Package replay detects resubmission of a proof that has already been
// accepted. Commitments carry no nonce or expiry, so a verifier that must not
// accept the same (proof, salt) pair twice records every pair it accepts.
//
// Pairs are identified by the SHA2-256 multihash of the length-prefixed
// proof followed by the salt.
package replay

import (
	"encoding/binary"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
)

// Logger receives replay events and, for BadgerGuard, badger's own logging.
var Logger = logrus.StandardLogger()

// Pair is one submitted proof with its salt.
type Pair struct {
	Proof []byte
	Salt  []byte
}

// Guard records accepted proofs.
type Guard interface {
	// CheckAndMark reports whether the pair was marked before, and marks it.
	// The check and the mark happen atomically.
	CheckAndMark(proof, salt []byte) (replayed bool, err error)
	// CheckAndMarkAll marks every pair, or none of them if any pair was
	// marked before or occurs more than once in pairs.
	CheckAndMarkAll(pairs []Pair) (replayed bool, err error)
	Close() error
}

// Digest returns the multihash identifying a (proof, salt) pair.
func Digest(proof, salt []byte) (multihash.Multihash, error) {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(proof)+len(salt))
	buf = binary.AppendUvarint(buf, uint64(len(proof)))
	buf = append(buf, proof...)
	buf = append(buf, salt...)

	mh, err := multihash.Sum(buf, multihash.SHA2_256, -1)
	if err != nil {
		return nil, errors.WrapPrefix(err, "cannot hash proof", 0)
	}
	return mh, nil
}

// digests returns the digest of every pair, and reports whether a pair occurs
// more than once.
func digests(pairs []Pair) ([]multihash.Multihash, bool, error) {
	mhs := make([]multihash.Multihash, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	dup := false
	for i, p := range pairs {
		mh, err := Digest(p.Proof, p.Salt)
		if err != nil {
			return nil, false, err
		}
		if _, ok := seen[string(mh)]; ok {
			dup = true
		}
		seen[string(mh)] = struct{}{}
		mhs[i] = mh
	}
	return mhs, dup, nil
}
