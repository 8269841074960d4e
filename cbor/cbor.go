// Package cbor encodes and decodes the small structured messages exchanged
// with a verifier (commitment envelopes, verification receipts), by wrapping
// github.com/fxamacker/cbor.
//
// Encoding follows Core Deterministic Encoding (RFC 8949 section 4.2.1), so a
// message has exactly one byte representation and can be signed or hashed.
// Decoding rejects duplicate map keys, indefinite lengths and tags.
package cbor

import (
	"github.com/fxamacker/cbor/v2" // imports as cbor
)

// Envelopes and receipts are flat structs; anything larger is rejected.
const (
	MaxArrayElements = 1024
	MaxMapPairs      = 64
	MaxNestedLevels  = 4
)

var (
	encOptions = cbor.EncOptions{
		IndefLength: cbor.IndefLengthForbidden,
		Sort:        cbor.SortCoreDeterministic,
		Time:        cbor.TimeUnix,
		TagsMd:      cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,
		MaxNestedLevels:  MaxNestedLevels,
		TagsMd:           cbor.TagsForbidden,
		// Unknown fields are tolerated so that newer peers can add to a message.
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src deterministically.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}
