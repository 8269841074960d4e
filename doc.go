// Package commitproof lets the holder of a secret attribute (a birth date, a
// balance, a set member, a number in a range, the date of an event) commit to
// it under a shared secret key, and lets a verifier check that commitment once
// the attribute is revealed.
//
// A commitment is HMAC-SHA256 over a canonical encoding of the attribute
// followed by a fresh random salt. Prove operations refuse to commit to an
// attribute that does not satisfy its predicate; Verify operations recompute
// the commitment from the revealed attribute and re-evaluate the predicate,
// and report any failure as false.
//
// Despite the "proof" vocabulary this is not a zero-knowledge scheme: the
// verifier learns the attribute when it verifies. The attribute is hidden
// only between the moment the commitment is made and the moment it is
// revealed. Commitments carry no expiry and the engine does not detect replay;
// see the verifier package for an opt-in replay guard.
package commitproof
