/*
Package nameservice builds instructions for the SPL Name Service
program. Instruction data is Borsh encoded: a one byte variant tag
followed by the variant fields (vectors carry a u32 little-endian
length prefix).
*/
package nameservice

import (
	"encoding/binary"

	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/transaction"
	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// ProgramID is the SPL Name Service program.
var ProgramID = derivation.NameProgramID

// SystemProgramID is the native system program (the all-zero key).
var SystemProgramID = types.Pubkey{}

// Instruction variant tags.
const (
	tagCreate byte = iota
	tagUpdate
	tagTransfer
	tagDelete
)

// CreateParams describes a name account creation.
type CreateParams struct {
	HashedName []byte
	Lamports   uint64
	Space      uint32

	NameAccount types.Pubkey
	Payer       types.Pubkey
	Owner       types.Pubkey
	// Class must sign account creation when set.
	Class *types.Pubkey
	// Parent scopes the name under another name account.
	Parent *types.Pubkey
	// ParentOwner must sign when creating under a parent.
	ParentOwner *types.Pubkey
}

// Create builds the instruction allocating and initializing a name
// account.
func Create(p CreateParams) transaction.Instruction {
	data := make([]byte, 0, 1+4+len(p.HashedName)+8+4)
	data = append(data, tagCreate)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(p.HashedName)))
	data = append(data, p.HashedName...)
	data = binary.LittleEndian.AppendUint64(data, p.Lamports)
	data = binary.LittleEndian.AppendUint32(data, p.Space)

	accounts := []transaction.AccountMeta{
		{Pubkey: SystemProgramID},
		{Pubkey: p.Payer, IsSigner: true, IsWritable: true},
		{Pubkey: p.NameAccount, IsWritable: true},
		{Pubkey: p.Owner},
		{Pubkey: orDefault(p.Class), IsSigner: p.Class != nil},
		{Pubkey: orDefault(p.Parent)},
	}
	if p.ParentOwner != nil {
		accounts = append(accounts, transaction.AccountMeta{Pubkey: *p.ParentOwner, IsSigner: true})
	}
	return transaction.Instruction{ProgramID: ProgramID, Accounts: accounts, Data: data}
}

// Update builds the instruction writing data into a name account at the
// given offset. signer is the owner (or the class when one is set).
func Update(nameAccount types.Pubkey, offset uint32, data []byte, signer types.Pubkey, parent *types.Pubkey) transaction.Instruction {
	ins := make([]byte, 0, 1+4+4+len(data))
	ins = append(ins, tagUpdate)
	ins = binary.LittleEndian.AppendUint32(ins, offset)
	ins = binary.LittleEndian.AppendUint32(ins, uint32(len(data)))
	ins = append(ins, data...)

	accounts := []transaction.AccountMeta{
		{Pubkey: nameAccount, IsWritable: true},
		{Pubkey: signer, IsSigner: true},
	}
	if parent != nil {
		accounts = append(accounts, transaction.AccountMeta{Pubkey: *parent})
	}
	return transaction.Instruction{ProgramID: ProgramID, Accounts: accounts, Data: ins}
}

// Transfer builds the instruction handing a name account to a new
// owner.
func Transfer(nameAccount, newOwner, owner types.Pubkey, class *types.Pubkey) transaction.Instruction {
	data := make([]byte, 0, 1+types.PubkeySize)
	data = append(data, tagTransfer)
	data = append(data, newOwner.Bytes()...)

	accounts := []transaction.AccountMeta{
		{Pubkey: nameAccount, IsWritable: true},
		{Pubkey: owner, IsSigner: true},
	}
	if class != nil {
		accounts = append(accounts, transaction.AccountMeta{Pubkey: *class, IsSigner: true})
	}
	return transaction.Instruction{ProgramID: ProgramID, Accounts: accounts, Data: data}
}

// Delete builds the instruction closing a name account and refunding
// its lamports.
func Delete(nameAccount, owner, refundTarget types.Pubkey) transaction.Instruction {
	accounts := []transaction.AccountMeta{
		{Pubkey: nameAccount, IsWritable: true},
		{Pubkey: owner, IsSigner: true},
		{Pubkey: refundTarget, IsWritable: true},
	}
	return transaction.Instruction{ProgramID: ProgramID, Accounts: accounts, Data: []byte{tagDelete}}
}

func orDefault(p *types.Pubkey) types.Pubkey {
	if p == nil {
		return types.Pubkey{}
	}
	return *p
}
