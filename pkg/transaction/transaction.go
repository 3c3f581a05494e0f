/*
Package transaction builds and signs Solana transactions in the legacy
wire format: a compact array of ed25519 signatures followed by the
serialized message they sign.
*/
package transaction

import (
	"errors"
	"fmt"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// AccountMeta describes how an instruction touches one account.
type AccountMeta struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation before compilation into a
// message.
type Instruction struct {
	ProgramID types.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// MessageHeader describes the layout of the compiled account key list.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references accounts by their index in the message
// key list.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// Message is a compiled transaction payload: deduplicated, ordered
// account keys, a recent blockhash and the instruction list.
type Message struct {
	Header          MessageHeader
	AccountKeys     []types.Pubkey
	RecentBlockhash types.Hash
	Instructions    []CompiledInstruction
}

// Transaction is a message with its signatures. Signatures are ordered
// like the signer accounts at the front of the message key list.
type Transaction struct {
	Signatures []types.Signature
	Message    *Message
}

// Signer signs transaction messages with a known public key.
type Signer interface {
	Pubkey() types.Pubkey
	Sign(message []byte) ([]byte, error)
}

// ErrUnknownSigner is returned when a signature is provided by a key
// the message does not list as a required signer.
var ErrUnknownSigner = errors.New("signer is not required by the message")

// NewMessage compiles instructions into a message paid for and signed
// by payer. Account keys are deduplicated with merged permissions and
// ordered as the runtime requires: writable signers first (payer
// leading), then readonly signers, writable non-signers and readonly
// non-signers.
func NewMessage(payer types.Pubkey, instructions []Instruction, blockhash types.Hash) *Message {
	type perm struct {
		signer   bool
		writable bool
	}
	order := []types.Pubkey{payer}
	perms := map[types.Pubkey]*perm{payer: {signer: true, writable: true}}

	note := func(key types.Pubkey, signer, writable bool) {
		p, ok := perms[key]
		if !ok {
			p = &perm{}
			perms[key] = p
			order = append(order, key)
		}
		p.signer = p.signer || signer
		p.writable = p.writable || writable
	}
	for _, ins := range instructions {
		for _, meta := range ins.Accounts {
			note(meta.Pubkey, meta.IsSigner, meta.IsWritable)
		}
		note(ins.ProgramID, false, false)
	}

	var keys []types.Pubkey
	pick := func(signer, writable bool) {
		for _, key := range order {
			p := perms[key]
			if p.signer == signer && p.writable == writable {
				keys = append(keys, key)
			}
		}
	}
	pick(true, true)
	pick(true, false)
	pick(false, true)
	pick(false, false)

	var header MessageHeader
	for _, key := range keys {
		p := perms[key]
		if p.signer {
			header.NumRequiredSignatures++
			if !p.writable {
				header.NumReadonlySignedAccounts++
			}
		} else if !p.writable {
			header.NumReadonlyUnsignedAccounts++
		}
	}

	index := make(map[types.Pubkey]uint8, len(keys))
	for i, key := range keys {
		index[key] = uint8(i)
	}
	compiled := make([]CompiledInstruction, 0, len(instructions))
	for _, ins := range instructions {
		accounts := make([]uint8, 0, len(ins.Accounts))
		for _, meta := range ins.Accounts {
			accounts = append(accounts, index[meta.Pubkey])
		}
		compiled = append(compiled, CompiledInstruction{
			ProgramIDIndex: index[ins.ProgramID],
			Accounts:       accounts,
			Data:           ins.Data,
		})
	}

	return &Message{
		Header:          header,
		AccountKeys:     keys,
		RecentBlockhash: blockhash,
		Instructions:    compiled,
	}
}

// Serialize encodes the message into its wire form, the exact bytes
// signers sign.
func (m *Message) Serialize() []byte {
	buf := []byte{
		m.Header.NumRequiredSignatures,
		m.Header.NumReadonlySignedAccounts,
		m.Header.NumReadonlyUnsignedAccounts,
	}
	buf = appendShortVecLen(buf, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buf = append(buf, key.Bytes()...)
	}
	buf = append(buf, m.RecentBlockhash.Bytes()...)
	buf = appendShortVecLen(buf, len(m.Instructions))
	for _, ins := range m.Instructions {
		buf = append(buf, ins.ProgramIDIndex)
		buf = appendShortVecLen(buf, len(ins.Accounts))
		buf = append(buf, ins.Accounts...)
		buf = appendShortVecLen(buf, len(ins.Data))
		buf = append(buf, ins.Data...)
	}
	return buf
}

// New wraps a compiled message into an unsigned transaction with
// zeroed signature slots for every required signer.
func New(message *Message) *Transaction {
	return &Transaction{
		Signatures: make([]types.Signature, message.Header.NumRequiredSignatures),
		Message:    message,
	}
}

// Sign signs the message with each given signer, placing signatures at
// the slot of the corresponding signer account. Signers the message
// does not require are rejected. Partial signing is allowed, the
// remaining slots stay zeroed.
func (t *Transaction) Sign(signers ...Signer) error {
	message := t.Message.Serialize()
	for _, signer := range signers {
		idx := -1
		for i := 0; i < int(t.Message.Header.NumRequiredSignatures) && i < len(t.Message.AccountKeys); i++ {
			if t.Message.AccountKeys[i].Equals(signer.Pubkey()) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSigner, signer.Pubkey())
		}
		raw, err := signer.Sign(message)
		if err != nil {
			return fmt.Errorf("signing message: %w", err)
		}
		sig, err := types.SignatureFromBytes(raw)
		if err != nil {
			return fmt.Errorf("signing message: %w", err)
		}
		t.Signatures[idx] = sig
	}
	return nil
}

// Serialize encodes the signed transaction into the wire form accepted
// by sendTransaction.
func (t *Transaction) Serialize() []byte {
	buf := appendShortVecLen(nil, len(t.Signatures))
	for _, sig := range t.Signatures {
		buf = append(buf, sig.Bytes()...)
	}
	return append(buf, t.Message.Serialize()...)
}
