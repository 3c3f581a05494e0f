// Package state holds the on-chain account layouts of the SPL Name
// Service program.
package state

import (
	"errors"
	"fmt"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// NameRecordHeaderLen is the serialized size of a NameRecordHeader.
// Every name account starts with one, the record payload follows.
const NameRecordHeaderLen = 96

// ErrAccountTooShort is returned when account data cannot hold a name
// record header.
var ErrAccountTooShort = errors.New("account data shorter than a name record header")

// NameRecordHeader is the fixed prefix of every name account: the
// parent name account, the owner and the optional name class.
type NameRecordHeader struct {
	ParentName types.Pubkey
	Owner      types.Pubkey
	Class      types.Pubkey
}

// NameRecordHeaderFromBytes parses a header from the start of raw
// account data.
func NameRecordHeaderFromBytes(data []byte) (*NameRecordHeader, error) {
	if len(data) < NameRecordHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrAccountTooShort, len(data))
	}
	var h NameRecordHeader
	copy(h.ParentName[:], data[:32])
	copy(h.Owner[:], data[32:64])
	copy(h.Class[:], data[64:96])
	return &h, nil
}

// SplitAccountData parses the header of raw name account data and
// returns it together with the trailing record payload. The payload
// aliases data, it is not copied.
func SplitAccountData(data []byte) (*NameRecordHeader, []byte, error) {
	h, err := NameRecordHeaderFromBytes(data)
	if err != nil {
		return nil, nil, err
	}
	return h, data[NameRecordHeaderLen:], nil
}

// Bytes serializes the header back into its 96 byte layout.
func (h *NameRecordHeader) Bytes() []byte {
	out := make([]byte, NameRecordHeaderLen)
	copy(out[:32], h.ParentName[:])
	copy(out[32:64], h.Owner[:])
	copy(out[64:96], h.Class[:])
	return out
}
