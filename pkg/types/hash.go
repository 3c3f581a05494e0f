package types

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// HashSize is the length of a Solana blockhash in bytes.
const HashSize = 32

// Hash is a 32 byte long blockhash.
type Hash [HashSize]byte

// HashFromString attempts to decode the given base58 string into a Hash.
func HashFromString(s string) (Hash, error) {
	var h Hash
	b, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("invalid base58 string: %w", err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("expected byte size of %d got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Bytes returns the byte slice representation of h.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String implements the fmt.Stringer interface.
func (h Hash) String() string {
	return base58.Encode(h[:])
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *Hash) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*h, err = HashFromString(js)
	return err
}

// MarshalJSON implements the json.Marshaler interface.
func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}
