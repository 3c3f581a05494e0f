package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// SignatureSize is the length of an ed25519 signature in bytes.
const SignatureSize = 64

// Signature is a 64 byte long ed25519 signature.
type Signature [SignatureSize]byte

// SignatureFromBytes attempts to decode the given bytes into a Signature.
func SignatureFromBytes(b []byte) (s Signature, err error) {
	if len(b) != SignatureSize {
		return s, fmt.Errorf("expected byte size of %d got %d", SignatureSize, len(b))
	}
	copy(s[:], b)
	return
}

// Bytes returns the byte slice representation of s.
func (s Signature) Bytes() []byte {
	return s[:]
}

// String implements the fmt.Stringer interface.
func (s Signature) String() string {
	return base58.Encode(s[:])
}
