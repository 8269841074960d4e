// Package verifier is the verifying side of a commitment exchange, as run by
// a remote verification service. It receives raw bytes rather than typed
// attributes: the 32-byte proof, the canonical attribute data, the salt, and
// a reference to the shared key. It recomputes the commitment exactly as the
// commitproof engine does, so that both sides agree byte for byte.
//
// Every verification publishes two events through Logger: a
// "verification_request" event describing the submission and a
// "verification_result" event with the outcome. Neither includes key
// material, proof bytes or attribute data.
package verifier

import (
	"crypto/ecdsa"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"sync/atomic"
	"time"

	"github.com/privacybydesign/commitproof/commitment"
	"github.com/privacybydesign/commitproof/keys"
	"github.com/privacybydesign/commitproof/verifier/replay"

	"github.com/sirupsen/logrus"
)

const (
	// ProofSize is the length of a proof: one HMAC-SHA256 output.
	ProofSize = commitment.MACSize
	// MinSaltLength is the shortest salt a Contract accepts by default.
	MinSaltLength = 16
)

// Logger is the default logger of a Contract, see WithLogger.
var Logger = logrus.StandardLogger()

// Contract verifies submitted commitments against keys from a Keystore.
// It is safe for concurrent use.
type Contract struct {
	keystore      keys.Keystore
	minSaltLength int
	guard         replay.Guard
	receiptKey    *ecdsa.PrivateKey
	now           func() time.Time
	log           *logrus.Logger
	ownsKeystore  bool

	verified, rejected, replayed uint64
}

// Option configures a Contract.
type Option func(*Contract)

// WithMinSaltLength raises the minimum accepted salt length. Values below
// MinSaltLength are ignored.
func WithMinSaltLength(n int) Option {
	return func(c *Contract) {
		if n > MinSaltLength {
			c.minSaltLength = n
		}
	}
}

// WithReplayGuard makes the contract reject a (proof, salt) pair that it has
// accepted before.
func WithReplayGuard(g replay.Guard) Option {
	return func(c *Contract) { c.guard = g }
}

// WithReceiptSigner enables VerifyWithReceipt, signing receipts with sk.
func WithReceiptSigner(sk *ecdsa.PrivateKey) Option {
	return func(c *Contract) { c.receiptKey = sk }
}

// WithClock sets the source of the time stamped on receipts.
func WithClock(now func() time.Time) Option {
	return func(c *Contract) { c.now = now }
}

// WithLogger replaces the package Logger for this contract.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Contract) { c.log = l }
}

func NewContract(ks keys.Keystore, opts ...Option) *Contract {
	c := &Contract{
		keystore:      ks,
		minSaltLength: MinSaltLength,
		now:           time.Now,
		log:           Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify reports whether proof is the commitment to data under salt and the
// key named by keyRef. With a replay guard configured, a pair that verified
// before is rejected.
func (c *Contract) Verify(proof, data, salt []byte, keyRef string) bool {
	ok, reason := c.check(proof, data, salt, keyRef)
	if ok {
		ok, reason = c.mark(replay.Pair{Proof: proof, Salt: salt})
	}
	c.record(keyRef, ok, reason)
	return ok
}

// VerifyBatch verifies parallel slices of proofs, data and salts against one
// key. It is true only if every entry verifies; it stops at the first entry
// that does not. Slices of different lengths, or an empty batch, verify as false.
// With a replay guard, entries are marked together after all of them have
// verified; a batch that is rejected marks none of them.
func (c *Contract) VerifyBatch(proofs, data, salts [][]byte, keyRef string) bool {
	entry := c.log.WithFields(logrus.Fields{
		"event":   "verification_request",
		"key_ref": keyRef,
		"batch":   len(proofs),
	})
	if len(proofs) == 0 || len(proofs) != len(data) || len(proofs) != len(salts) {
		entry.WithFields(logrus.Fields{"data": len(data), "salts": len(salts)}).Debug("batch length mismatch")
		c.record(keyRef, false, "batch length mismatch")
		return false
	}
	entry.Debug("batch submitted")

	for i := range proofs {
		if ok, reason := c.check(proofs[i], data[i], salts[i], keyRef); !ok {
			c.log.WithField("index", i).Debug("batch entry rejected")
			c.record(keyRef, false, reason)
			return false
		}
	}
	pairs := make([]replay.Pair, len(proofs))
	for i := range proofs {
		pairs[i] = replay.Pair{Proof: proofs[i], Salt: salts[i]}
	}
	ok, reason := c.mark(pairs...)
	c.record(keyRef, ok, reason)
	return ok
}

// VerifyEnvelope verifies an encoded commitment envelope against data.
func (c *Contract) VerifyEnvelope(envelope, data []byte, keyRef string) bool {
	env, err := commitment.DecodeEnvelope(envelope)
	if err != nil {
		c.record(keyRef, false, "malformed envelope")
		return false
	}
	return c.Verify(env.Proof, data, env.Salt, keyRef)
}

// Stats returns how many submissions were accepted, rejected, and rejected
// as replays (which are included in rejected).
func (c *Contract) Stats() (verified, rejected, replayed uint64) {
	return atomic.LoadUint64(&c.verified),
		atomic.LoadUint64(&c.rejected),
		atomic.LoadUint64(&c.replayed)
}

// Close releases the replay guard, if any. A contract built by
// NewContractFromConfig also destroys the keys it loaded.
func (c *Contract) Close() error {
	if closer, ok := c.keystore.(io.Closer); ok && c.ownsKeystore {
		_ = closer.Close()
	}
	if c.guard == nil {
		return nil
	}
	return c.guard.Close()
}

// check recomputes the commitment; the failure reason is for logging only.
func (c *Contract) check(proof, data, salt []byte, keyRef string) (bool, string) {
	c.log.WithFields(logrus.Fields{
		"event":     "verification_request",
		"key_ref":   keyRef,
		"proof_len": len(proof),
		"data_len":  len(data),
		"salt_len":  len(salt),
	}).Debug("proof submitted")

	if len(proof) != ProofSize {
		return false, "wrong proof length"
	}
	if len(salt) < c.minSaltLength {
		return false, "salt too short"
	}
	key, err := c.keystore.SecretKey(keyRef)
	if err != nil {
		c.log.WithError(err).WithField("key_ref", keyRef).Warn("cannot resolve key")
		return false, "unknown key"
	}
	provider, err := commitment.NewProvider(key)
	if err != nil {
		return false, "unknown key"
	}

	message := make([]byte, 0, len(data)+base64.StdEncoding.EncodedLen(len(salt)))
	message = append(message, data...)
	message = append(message, base64.StdEncoding.EncodeToString(salt)...)
	expected, err := provider.Sum(message)
	if err != nil {
		return false, "key unavailable"
	}
	if subtle.ConstantTimeCompare(proof, expected) != 1 {
		return false, "commitment mismatch"
	}
	return true, ""
}

// mark records the pairs with the replay guard, all of them or none.
func (c *Contract) mark(pairs ...replay.Pair) (bool, string) {
	if c.guard == nil {
		return true, ""
	}
	replayed, err := c.guard.CheckAndMarkAll(pairs)
	if err != nil {
		c.log.WithError(err).Error("replay guard failed")
		return false, "replay guard failure"
	}
	if replayed {
		atomic.AddUint64(&c.replayed, 1)
		return false, "replayed"
	}
	return true, ""
}

func (c *Contract) record(keyRef string, ok bool, reason string) {
	result := "success"
	if ok {
		atomic.AddUint64(&c.verified, 1)
	} else {
		atomic.AddUint64(&c.rejected, 1)
		result = "failure"
	}
	entry := c.log.WithFields(logrus.Fields{
		"event":   "verification_result",
		"key_ref": keyRef,
		"result":  result,
	})
	if reason != "" {
		entry = entry.WithField("reason", reason)
	}
	entry.Info("verification finished")
}
