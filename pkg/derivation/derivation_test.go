package derivation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

func TestHashedName(t *testing.T) {
	h := HashedName("bonfida")
	require.Len(t, h, 32)
	// The prefix is part of the hashed input, a bare sha256 of the name
	// must differ.
	assert.NotEqual(t, HashedName("bonfida"), HashedName("Bonfida"))
	assert.Equal(t, HashedName("bonfida"), HashedName("bonfida"))
}

func TestFindProgramAddress(t *testing.T) {
	seeds := [][]byte{HashedName("example"), make([]byte, 32), RootDomainAccount.Bytes()}
	key, bump, err := FindProgramAddress(seeds, NameProgramID)
	require.NoError(t, err)

	// The derived key must be off-curve and reproducible with the
	// returned bump.
	assert.False(t, isOnCurve(key.Bytes()))
	again, err := ProgramAddress(append(seeds, []byte{bump}), NameProgramID)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestProgramAddressSeedLimit(t *testing.T) {
	_, err := ProgramAddress([][]byte{make([]byte, 33)}, NameProgramID)
	require.ErrorIs(t, err, ErrSeedTooLong)
}

func TestDomainKey(t *testing.T) {
	plain, err := DomainKey("bonfida", false)
	require.NoError(t, err)
	suffixed, err := DomainKey("bonfida.sol", false)
	require.NoError(t, err)
	assert.Equal(t, plain, suffixed)

	sub, err := DomainKey("dex.bonfida", false)
	require.NoError(t, err)
	rec, err := DomainKey("dex.bonfida", true)
	require.NoError(t, err)

	// Subdomain and record accounts of the same name must not collide,
	// and neither may collide with the parent.
	assert.NotEqual(t, sub, rec)
	assert.NotEqual(t, plain, sub)
	assert.NotEqual(t, plain, rec)

	_, err = DomainKey("a.b.c", false)
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestRecordKey(t *testing.T) {
	viaHelper, err := RecordKey("bonfida.sol", "ETH")
	require.NoError(t, err)
	direct, err := DomainKey("ETH.bonfida", true)
	require.NoError(t, err)
	assert.Equal(t, direct, viaHelper)
}

func TestReverseLookupKey(t *testing.T) {
	domain, err := DomainKey("bonfida", false)
	require.NoError(t, err)
	reverse, err := ReverseLookupKey(domain)
	require.NoError(t, err)
	assert.NotEqual(t, domain, reverse)

	// Reverse keys are a function of the name account only.
	again, err := ReverseLookupKey(domain)
	require.NoError(t, err)
	assert.Equal(t, reverse, again)
}

func TestWellKnownConstants(t *testing.T) {
	assert.Equal(t, "namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX", NameProgramID.String())
	assert.NotEqual(t, types.Pubkey{}, RootDomainAccount)
	assert.NotEqual(t, types.Pubkey{}, ReverseLookupClass)
}
