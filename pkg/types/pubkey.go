package types

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeySize is the length of an ed25519 public key in bytes.
const PubkeySize = 32

// Pubkey is a 32 byte long Solana account address.
type Pubkey [PubkeySize]byte

// PubkeyFromString attempts to decode the given base58 string into a Pubkey.
func PubkeyFromString(s string) (Pubkey, error) {
	var p Pubkey
	b, err := base58.Decode(s)
	if err != nil {
		return p, fmt.Errorf("invalid base58 string: %w", err)
	}
	return PubkeyFromBytes(b)
}

// PubkeyFromBytes attempts to decode the given bytes into a Pubkey.
func PubkeyFromBytes(b []byte) (p Pubkey, err error) {
	if len(b) != PubkeySize {
		return p, fmt.Errorf("expected byte size of %d got %d", PubkeySize, len(b))
	}
	copy(p[:], b)
	return
}

// MustPubkey decodes the given base58 string into a Pubkey, panicking on
// error. It is intended for well-known program and account constants only.
func MustPubkey(s string) Pubkey {
	p, err := PubkeyFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Bytes returns the byte slice representation of p.
func (p Pubkey) Bytes() []byte {
	return p[:]
}

// String implements the fmt.Stringer interface.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// Equals returns true if both Pubkey values are the same.
func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

// IsZero returns true if p is the all-zero key (the system program ID and
// the conventional "no account" placeholder).
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Pubkey) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*p, err = PubkeyFromString(js)
	return err
}

// MarshalJSON implements the json.Marshaler interface.
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}
