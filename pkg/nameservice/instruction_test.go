package nameservice

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/types"
)

func randomPubkey(t *testing.T) types.Pubkey {
	t.Helper()
	var p types.Pubkey
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	hashed := derivation.HashedName("example")
	payer := randomPubkey(t)
	owner := randomPubkey(t)
	nameAccount := randomPubkey(t)
	parent := randomPubkey(t)
	parentOwner := randomPubkey(t)

	ins := Create(CreateParams{
		HashedName:  hashed,
		Lamports:    1_000_000,
		Space:       120,
		NameAccount: nameAccount,
		Payer:       payer,
		Owner:       owner,
		Parent:      &parent,
		ParentOwner: &parentOwner,
	})

	assert.Equal(t, ProgramID, ins.ProgramID)
	require.Len(t, ins.Accounts, 7)
	assert.Equal(t, SystemProgramID, ins.Accounts[0].Pubkey)
	assert.True(t, ins.Accounts[1].IsSigner)
	assert.True(t, ins.Accounts[1].IsWritable)
	assert.Equal(t, nameAccount, ins.Accounts[2].Pubkey)
	// No class given: placeholder key, not a signer.
	assert.Equal(t, types.Pubkey{}, ins.Accounts[4].Pubkey)
	assert.False(t, ins.Accounts[4].IsSigner)
	assert.True(t, ins.Accounts[6].IsSigner)

	require.Len(t, ins.Data, 1+4+len(hashed)+8+4)
	assert.Equal(t, tagCreate, ins.Data[0])
	assert.Equal(t, uint32(len(hashed)), binary.LittleEndian.Uint32(ins.Data[1:5]))
	assert.Equal(t, hashed, ins.Data[5:5+len(hashed)])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(ins.Data[37:45]))
	assert.Equal(t, uint32(120), binary.LittleEndian.Uint32(ins.Data[45:49]))
}

func TestUpdate(t *testing.T) {
	nameAccount := randomPubkey(t)
	signer := randomPubkey(t)
	parent := randomPubkey(t)
	payload := []byte{9, 9, 9}

	ins := Update(nameAccount, 17, payload, signer, &parent)
	require.Len(t, ins.Accounts, 3)
	assert.True(t, ins.Accounts[0].IsWritable)
	assert.True(t, ins.Accounts[1].IsSigner)
	assert.Equal(t, parent, ins.Accounts[2].Pubkey)

	assert.Equal(t, tagUpdate, ins.Data[0])
	assert.Equal(t, uint32(17), binary.LittleEndian.Uint32(ins.Data[1:5]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(ins.Data[5:9]))
	assert.Equal(t, payload, ins.Data[9:])
}

func TestTransfer(t *testing.T) {
	nameAccount := randomPubkey(t)
	owner := randomPubkey(t)
	newOwner := randomPubkey(t)

	ins := Transfer(nameAccount, newOwner, owner, nil)
	require.Len(t, ins.Accounts, 2)
	assert.Equal(t, tagTransfer, ins.Data[0])
	assert.Equal(t, newOwner.Bytes(), ins.Data[1:])
}

func TestDelete(t *testing.T) {
	nameAccount := randomPubkey(t)
	owner := randomPubkey(t)

	ins := Delete(nameAccount, owner, owner)
	require.Len(t, ins.Accounts, 3)
	assert.Equal(t, []byte{tagDelete}, ins.Data)
	assert.True(t, ins.Accounts[1].IsSigner)
	assert.True(t, ins.Accounts[2].IsWritable)
}
