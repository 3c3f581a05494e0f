/*
Package wallet loads and stores Solana keypair files: a JSON array of
64 bytes holding the ed25519 seed followed by the public key, as
written by solana-keygen.
*/
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// ErrBadKeypair is returned for keypair files whose content is not a
// valid ed25519 private key.
var ErrBadKeypair = errors.New("invalid keypair file")

// Keypair is an ed25519 signing key with its public half.
type Keypair struct {
	priv ed25519.PrivateKey
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromBytes builds a keypair from the 64 byte seed+pubkey form.
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBadKeypair, len(b), ed25519.PrivateKeySize)
	}
	priv := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	if !priv.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(b[ed25519.SeedSize:])) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrBadKeypair)
	}
	return &Keypair{priv: priv}, nil
}

// Load reads a keypair from a solana-keygen style JSON file.
func Load(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keypair file: %w", err)
	}
	var ints []int16
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadKeypair, err)
	}
	bytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte value %d out of range", ErrBadKeypair, v)
		}
		bytes[i] = byte(v)
	}
	return KeypairFromBytes(bytes)
}

// Save writes the keypair to path in the JSON byte-array format,
// readable only by the owner.
func (k *Keypair) Save(path string) error {
	ints := make([]int16, len(k.priv))
	for i, b := range k.priv {
		ints[i] = int16(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Pubkey returns the public key of the pair.
func (k *Keypair) Pubkey() types.Pubkey {
	p, _ := types.PubkeyFromBytes(k.priv.Public().(ed25519.PublicKey))
	return p
}

// Sign signs the message with the private key. It satisfies both the
// record serialization and the transaction signing capabilities.
func (k *Keypair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}
