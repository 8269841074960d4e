package verifier

import (
	"crypto/ecdsa"

	"github.com/privacybydesign/commitproof/signed"
	"github.com/privacybydesign/commitproof/verifier/replay"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
)

// ErrNoReceiptSigner is returned by VerifyWithReceipt on a Contract without
// WithReceiptSigner.
var ErrNoReceiptSigner = errors.New("contract has no receipt signing key")

// Receipt records the outcome of one verification. ProofDigest is the
// replay.Digest multihash of the submitted proof and salt.
type Receipt struct {
	KeyRef      string `cbor:"1,keyasint"`
	ProofDigest []byte `cbor:"2,keyasint"`
	Result      bool   `cbor:"3,keyasint"`
	Time        int64  `cbor:"4,keyasint"`
	ID          string `cbor:"5,keyasint"`
}

// VerifyWithReceipt verifies like Verify and additionally returns a signed
// receipt of the outcome, also when the outcome is false.
func (c *Contract) VerifyWithReceipt(proof, data, salt []byte, keyRef string) (bool, signed.Message, error) {
	if c.receiptKey == nil {
		return false, nil, ErrNoReceiptSigner
	}
	digest, err := replay.Digest(proof, salt)
	if err != nil {
		return false, nil, err
	}

	ok := c.Verify(proof, data, salt, keyRef)
	r := &Receipt{
		KeyRef:      keyRef,
		ProofDigest: digest,
		Result:      ok,
		Time:        c.now().Unix(),
		ID:          uuid.NewString(),
	}
	msg, err := signed.MarshalSign(c.receiptKey, r)
	if err != nil {
		return ok, nil, errors.WrapPrefix(err, "cannot sign receipt", 0)
	}
	c.log.WithFields(logrus.Fields{
		"receipt_id": r.ID,
		"proof_id":   r.ProofID(),
	}).Debug("issued receipt")
	return ok, msg, nil
}

// OpenReceipt checks the signature on msg against pk and returns the receipt.
func OpenReceipt(pk *ecdsa.PublicKey, msg signed.Message) (*Receipt, error) {
	var r Receipt
	if err := signed.UnmarshalVerify(pk, msg, &r); err != nil {
		return nil, errors.WrapPrefix(err, "invalid receipt", 0)
	}
	return &r, nil
}

// ProofID returns the base58 form of ProofDigest, for display and logs.
func (r *Receipt) ProofID() string {
	return multihash.Multihash(r.ProofDigest).B58String()
}

// Matches reports whether the receipt was issued for this proof and salt.
func (r *Receipt) Matches(proof, salt []byte) bool {
	digest, err := replay.Digest(proof, salt)
	if err != nil {
		return false
	}
	return string(digest) == string(r.ProofDigest)
}
