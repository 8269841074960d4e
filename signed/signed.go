// Package signed signs and verifies CBOR-encoded messages with ECDSA over
// P-256. A verifier uses it to hand out receipts whose content cannot be
// altered without detection.
package signed

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"math/big"

	"github.com/privacybydesign/commitproof/cbor"

	"github.com/go-errors/errors"
)

type (
	// Message is a signed message, created by MarshalSign and opened by UnmarshalVerify.
	Message []byte

	// message-signature tuple
	tuple struct {
		Msg []byte `cbor:"1,keyasint"`
		Sig []byte `cbor:"2,keyasint"`
	}
)

var ErrInvalidSignature = errors.New("ecdsa signature was invalid")

func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// MarshalPemPublicKey returns the PEM-encoded PKIX form of pk, for
// distributing the key against which receipts are checked.
func MarshalPemPublicKey(pk *ecdsa.PublicKey) ([]byte, error) {
	bts, err := x509.MarshalPKIXPublicKey(pk)
	if err != nil {
		return nil, errors.WrapPrefix(err, "Failed to serialize public key", 0)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: bts}), nil
}

func UnmarshalPemPublicKey(bts []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(bts)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	genericPk, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pk, ok := genericPk.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("invalid ecdsa public key")
	}
	return pk, nil
}

// Sign returns an ASN.1 (r, s) signature over the SHA-256 hash of bts.
func Sign(sk *ecdsa.PrivateKey, bts []byte) ([]byte, error) {
	hash := sha256.Sum256(bts)
	r, s, err := ecdsa.Sign(rand.Reader, sk, hash[:])
	if err != nil {
		return nil, err
	}
	return asn1.Marshal([]*big.Int{r, s})
}

func Verify(pk *ecdsa.PublicKey, bts []byte, signature []byte) error {
	var ints []*big.Int
	if _, err := asn1.Unmarshal(signature, &ints); err != nil {
		return err
	}
	if len(ints) != 2 {
		return ErrInvalidSignature
	}
	hash := sha256.Sum256(bts)
	if !ecdsa.Verify(pk, hash[:], ints[0], ints[1]) {
		return ErrInvalidSignature
	}
	return nil
}

// MarshalSign encodes message as CBOR, signs the encoding, and returns the
// encoded message-signature pair.
func MarshalSign(sk *ecdsa.PrivateKey, message interface{}) (Message, error) {
	bts, err := cbor.Marshal(message)
	if err != nil {
		return nil, err
	}
	signature, err := Sign(sk, bts)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&tuple{bts, signature})
}

// UnmarshalVerify checks the signature of a Message created by MarshalSign
// and decodes the signed CBOR into dst.
func UnmarshalVerify(pk *ecdsa.PublicKey, signed Message, dst interface{}) error {
	var tmp tuple
	if err := cbor.Unmarshal(signed, &tmp); err != nil {
		return err
	}
	if err := Verify(pk, tmp.Msg, tmp.Sig); err != nil {
		return err
	}
	return cbor.Unmarshal(tmp.Msg, dst)
}
