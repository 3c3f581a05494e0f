package rpc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// JSONRPCVersion is the only JSON-RPC protocol version supported.
const JSONRPCVersion = "2.0"

// Commitment is the confirmation level requests are evaluated at.
type Commitment string

// Supported commitment levels.
const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

type (
	// Request represents a JSON-RPC request sent to a Solana node. All
	// methods take positional parameters.
	Request struct {
		JSONRPC string        `json:"jsonrpc"`
		Method  string        `json:"method"`
		Params  []interface{} `json:"params"`
		ID      uint64        `json:"id"`
	}

	// Response is a raw JSON-RPC 2.0 response with an undecoded result.
	Response struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Error   *Error          `json:"error,omitempty"`
		Result  json.RawMessage `json:"result,omitempty"`
	}

	// Error is a JSON-RPC error object.
	Error struct {
		Code    int64           `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Account is the decoded state of one on-chain account.
type Account struct {
	Lamports   uint64
	Owner      types.Pubkey
	Data       []byte
	Executable bool
	RentEpoch  uint64
}

// KeyedAccount pairs an account with its address, as returned by
// program account scans.
type KeyedAccount struct {
	Pubkey  types.Pubkey `json:"pubkey"`
	Account Account      `json:"account"`
}

// accountJSON is the wire form of an account with base64 data.
type accountJSON struct {
	Lamports   uint64       `json:"lamports"`
	Owner      types.Pubkey `json:"owner"`
	Data       []string     `json:"data"`
	Executable bool         `json:"executable"`
	RentEpoch  uint64       `json:"rentEpoch"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Account) UnmarshalJSON(data []byte) error {
	var aux accountJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Data) < 1 {
		return fmt.Errorf("account data tuple is empty")
	}
	if len(aux.Data) > 1 && aux.Data[1] != "base64" {
		return fmt.Errorf("unexpected account data encoding %q", aux.Data[1])
	}
	raw, err := base64.StdEncoding.DecodeString(aux.Data[0])
	if err != nil {
		return fmt.Errorf("decoding account data: %w", err)
	}
	a.Lamports = aux.Lamports
	a.Owner = aux.Owner
	a.Data = raw
	a.Executable = aux.Executable
	a.RentEpoch = aux.RentEpoch
	return nil
}

// Memcmp matches account data bytes at an offset against base58
// encoded content.
type Memcmp struct {
	Offset uint64 `json:"offset"`
	Bytes  string `json:"bytes"`
}

// Filter narrows getProgramAccounts scans. Exactly one field is set
// per filter.
type Filter struct {
	DataSize uint64  `json:"dataSize,omitempty"`
	Memcmp   *Memcmp `json:"memcmp,omitempty"`
}

// MemcmpFilter builds a memcmp filter matching the given bytes at
// offset.
func MemcmpFilter(offset uint64, b []byte) Filter {
	return Filter{Memcmp: &Memcmp{Offset: offset, Bytes: base58.Encode(b)}}
}

// Blockhash is the result of a getLatestBlockhash call.
type Blockhash struct {
	Blockhash            types.Hash `json:"blockhash"`
	LastValidBlockHeight uint64     `json:"lastValidBlockHeight"`
}
