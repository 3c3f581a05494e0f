package transaction

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

func TestShortVecLen(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{65535, []byte{0xff, 0xff, 0x03}},
	}
	for _, tc := range cases {
		got := appendShortVecLen(nil, tc.n)
		assert.Equal(t, tc.want, got, "encode %d", tc.n)

		value, consumed, err := readShortVecLen(got)
		require.NoError(t, err, "decode %d", tc.n)
		assert.Equal(t, tc.n, value)
		assert.Equal(t, len(tc.want), consumed)
	}

	_, _, err := readShortVecLen(nil)
	require.ErrorIs(t, err, ErrBadLength)
	_, _, err = readShortVecLen([]byte{0x80, 0x80})
	require.ErrorIs(t, err, ErrBadLength)
	_, _, err = readShortVecLen([]byte{0x80, 0x80, 0x80})
	require.ErrorIs(t, err, ErrBadLength)
}

type keypair struct {
	priv ed25519.PrivateKey
}

func newKeypair(t *testing.T) keypair {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return keypair{priv: priv}
}

func (k keypair) Pubkey() types.Pubkey {
	p, _ := types.PubkeyFromBytes(k.priv.Public().(ed25519.PublicKey))
	return p
}

func (k keypair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}

func randomPubkey(t *testing.T) types.Pubkey {
	t.Helper()
	var p types.Pubkey
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}

func TestNewMessage(t *testing.T) {
	payer := newKeypair(t)
	program := randomPubkey(t)
	writable := randomPubkey(t)
	readonly := randomPubkey(t)
	var blockhash types.Hash

	ins := Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			{Pubkey: writable, IsWritable: true},
			{Pubkey: readonly},
			{Pubkey: payer.Pubkey(), IsSigner: true, IsWritable: true},
		},
		Data: []byte{1, 2, 3},
	}
	msg := NewMessage(payer.Pubkey(), []Instruction{ins}, blockhash)

	require.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
	require.Equal(t, uint8(0), msg.Header.NumReadonlySignedAccounts)
	require.Equal(t, uint8(2), msg.Header.NumReadonlyUnsignedAccounts)

	// Payer first, then the writable account, readonly ones last.
	require.Len(t, msg.AccountKeys, 4)
	assert.Equal(t, payer.Pubkey(), msg.AccountKeys[0])
	assert.Equal(t, writable, msg.AccountKeys[1])

	require.Len(t, msg.Instructions, 1)
	compiled := msg.Instructions[0]
	assert.Equal(t, msg.AccountKeys[compiled.ProgramIDIndex], program)
	require.Len(t, compiled.Accounts, 3)
	assert.Equal(t, uint8(0), compiled.Accounts[2]) // payer meta
	assert.Equal(t, []byte{1, 2, 3}, compiled.Data)
}

func TestMessageDedup(t *testing.T) {
	payer := newKeypair(t)
	program := randomPubkey(t)
	shared := randomPubkey(t)
	var blockhash types.Hash

	// The same account referenced as readonly in one instruction and
	// writable in another must appear once, writable.
	instructions := []Instruction{
		{ProgramID: program, Accounts: []AccountMeta{{Pubkey: shared}}},
		{ProgramID: program, Accounts: []AccountMeta{{Pubkey: shared, IsWritable: true}}},
	}
	msg := NewMessage(payer.Pubkey(), instructions, blockhash)
	require.Len(t, msg.AccountKeys, 3) // payer, shared, program
	assert.Equal(t, shared, msg.AccountKeys[1])
	assert.Equal(t, uint8(1), msg.Header.NumReadonlyUnsignedAccounts)
}

func TestTransactionSign(t *testing.T) {
	payer := newKeypair(t)
	program := randomPubkey(t)
	var blockhash types.Hash

	msg := NewMessage(payer.Pubkey(), []Instruction{
		{ProgramID: program, Data: []byte{42}},
	}, blockhash)
	tx := New(msg)
	require.Len(t, tx.Signatures, 1)

	require.NoError(t, tx.Sign(payer))
	valid := ed25519.Verify(
		ed25519.PublicKey(payer.Pubkey().Bytes()),
		msg.Serialize(),
		tx.Signatures[0].Bytes(),
	)
	assert.True(t, valid)

	stranger := newKeypair(t)
	require.ErrorIs(t, tx.Sign(stranger), ErrUnknownSigner)
}

func TestTransactionSerialize(t *testing.T) {
	payer := newKeypair(t)
	program := randomPubkey(t)
	var blockhash types.Hash

	msg := NewMessage(payer.Pubkey(), []Instruction{
		{ProgramID: program, Data: []byte{7, 8}},
	}, blockhash)
	tx := New(msg)
	require.NoError(t, tx.Sign(payer))

	wire := tx.Serialize()
	// 1 signature count byte, 64 signature bytes, then the message.
	require.Greater(t, len(wire), 65)
	assert.Equal(t, byte(1), wire[0])
	assert.Equal(t, tx.Signatures[0].Bytes(), wire[1:65])
	assert.Equal(t, msg.Serialize(), wire[65:])
}
