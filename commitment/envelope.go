package commitment

import (
	"encoding/base64"

	"github.com/privacybydesign/commitproof/cbor"

	"github.com/go-errors/errors"
)

// Envelope carries a proof and its salt as raw bytes, for handing a
// commitment to a verifier. The attribute itself is never part of it.
type Envelope struct {
	Predicate string `cbor:"1,keyasint"`
	Proof     []byte `cbor:"2,keyasint"`
	Salt      []byte `cbor:"3,keyasint"`
}

// NewEnvelope decodes the Base64 proof and salt produced by a Provider.
func NewEnvelope(predicate, proof, salt string) (*Envelope, error) {
	p, err := base64.StdEncoding.DecodeString(proof)
	if err != nil {
		return nil, errors.WrapPrefix(err, "proof is not valid base64", 0)
	}
	s, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, errors.WrapPrefix(err, "salt is not valid base64", 0)
	}
	return &Envelope{Predicate: predicate, Proof: p, Salt: s}, nil
}

// Encode returns the deterministic CBOR encoding of the envelope.
func (e *Envelope) Encode() ([]byte, error) {
	return cbor.Marshal(e)
}

// DecodeEnvelope parses an encoded envelope.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, errors.WrapPrefix(err, "malformed commitment envelope", 0)
	}
	return &e, nil
}

// ProofText returns the proof in the Base64 form used by Verify* operations.
func (e *Envelope) ProofText() string {
	return base64.StdEncoding.EncodeToString(e.Proof)
}

// SaltText returns the salt in the Base64 form that is part of the canonical message.
func (e *Envelope) SaltText() string {
	return base64.StdEncoding.EncodeToString(e.Salt)
}
