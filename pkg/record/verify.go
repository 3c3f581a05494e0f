package record

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"filippo.io/edwards25519"
)

// Signer produces an ed25519 signature over a message. It is the
// capability SOL record serialization needs from a wallet; the codec
// itself never holds key material.
type Signer interface {
	Sign(message []byte) ([]byte, error)
}

// VerifySignature checks an ed25519 signature over message against the
// given public key. Structurally unusable inputs (wrong lengths, a public
// key that is not a canonically encoded curve point) are reported as
// errors; a well-formed signature that simply does not verify yields
// (false, nil).
func VerifySignature(message, signature, pubkey []byte) (bool, error) {
	if len(pubkey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: public key is %d bytes, want %d",
			ErrMalformedSignature, len(pubkey), ed25519.PublicKeySize)
	}
	point, err := new(edwards25519.Point).SetBytes(pubkey)
	if err != nil || !bytes.Equal(point.Bytes(), pubkey) {
		return false, fmt.Errorf("%w: public key is not a canonical curve point", ErrMalformedSignature)
	}
	if len(signature) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: signature is %d bytes, want %d",
			ErrMalformedSignature, len(signature), ed25519.SignatureSize)
	}
	return ed25519.Verify(ed25519.PublicKey(pubkey), message, signature), nil
}
