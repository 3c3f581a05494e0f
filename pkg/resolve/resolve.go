/*
Package resolve answers name service queries over an RPC client:
domain ownership, registry contents, record values, reverse lookups
and per-owner domain listings.
*/
package resolve

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/fulldev0023/sns-sdk/pkg/derivation"
	"github.com/fulldev0023/sns-sdk/pkg/record"
	"github.com/fulldev0023/sns-sdk/pkg/rpc"
	"github.com/fulldev0023/sns-sdk/pkg/state"
	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// reverseCacheSize bounds the reverse lookup cache. Reverse entries
// are immutable for the lifetime of a domain, caching them is safe.
const reverseCacheSize = 1024

// ErrBadReverse is returned when a reverse lookup account exists but
// its payload cannot be parsed.
var ErrBadReverse = errors.New("malformed reverse lookup data")

// Resolver answers name service queries. It is safe for concurrent
// use.
type Resolver struct {
	client *rpc.Client

	reverseCache *lru.Cache
}

// New creates a Resolver on top of the given RPC client.
func New(client *rpc.Client) *Resolver {
	cache, _ := lru.New(reverseCacheSize) // Never errors for positive size.
	return &Resolver{
		client:       client,
		reverseCache: cache,
	}
}

// NameRegistry fetches and parses the name account at key, returning
// its header and the trailing payload.
func (r *Resolver) NameRegistry(ctx context.Context, key types.Pubkey) (*state.NameRecordHeader, []byte, error) {
	acc, err := r.client.GetAccountInfo(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return state.SplitAccountData(acc.Data)
}

// Owner resolves the registry owner of a domain (with or without the
// .sol suffix).
func (r *Resolver) Owner(ctx context.Context, domain string) (types.Pubkey, error) {
	key, err := derivation.DomainKey(domain, false)
	if err != nil {
		return types.Pubkey{}, err
	}
	header, _, err := r.NameRegistry(ctx, key)
	if err != nil {
		return types.Pubkey{}, err
	}
	return header.Owner, nil
}

// Record fetches and decodes one record of a domain.
func (r *Resolver) Record(ctx context.Context, domain string, t record.Type) (string, error) {
	key, err := derivation.RecordKey(domain, t.String())
	if err != nil {
		return "", err
	}
	_, payload, err := r.NameRegistry(ctx, key)
	if err != nil {
		return "", err
	}
	return record.Deserialize(payload, t, key)
}

// Reverse resolves the human-readable name of a name account.
func (r *Resolver) Reverse(ctx context.Context, nameAccount types.Pubkey) (string, error) {
	if cached, ok := r.reverseCache.Get(nameAccount); ok {
		return cached.(string), nil
	}
	reverseKey, err := derivation.ReverseLookupKey(nameAccount)
	if err != nil {
		return "", err
	}
	_, payload, err := r.NameRegistry(ctx, reverseKey)
	if err != nil {
		return "", err
	}
	name, err := parseReverse(payload)
	if err != nil {
		return "", err
	}
	r.reverseCache.Add(nameAccount, name)
	return name, nil
}

// ReverseBatch resolves the names of several name accounts in one
// round trip. Accounts with no reverse entry yield empty strings at
// their position.
func (r *Resolver) ReverseBatch(ctx context.Context, nameAccounts []types.Pubkey) ([]string, error) {
	names := make([]string, len(nameAccounts))
	keys := make([]types.Pubkey, 0, len(nameAccounts))
	positions := make([]int, 0, len(nameAccounts))
	for i, account := range nameAccounts {
		if cached, ok := r.reverseCache.Get(account); ok {
			names[i] = cached.(string)
			continue
		}
		reverseKey, err := derivation.ReverseLookupKey(account)
		if err != nil {
			return nil, err
		}
		keys = append(keys, reverseKey)
		positions = append(positions, i)
	}
	if len(keys) == 0 {
		return names, nil
	}

	accounts, err := r.client.GetMultipleAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, acc := range accounts {
		if acc == nil {
			continue
		}
		_, payload, err := state.SplitAccountData(acc.Data)
		if err != nil {
			return nil, fmt.Errorf("reverse entry %s: %w", keys[i], err)
		}
		name, err := parseReverse(payload)
		if err != nil {
			return nil, fmt.Errorf("reverse entry %s: %w", keys[i], err)
		}
		names[positions[i]] = name
		r.reverseCache.Add(nameAccounts[positions[i]], name)
	}
	return names, nil
}

// DomainsForOwner lists every .sol domain registry owned by the given
// wallet.
func (r *Resolver) DomainsForOwner(ctx context.Context, owner types.Pubkey) ([]types.Pubkey, error) {
	filters := []rpc.Filter{
		rpc.MemcmpFilter(0, derivation.RootDomainAccount.Bytes()),
		rpc.MemcmpFilter(32, owner.Bytes()),
	}
	accounts, err := r.client.GetProgramAccounts(ctx, derivation.NameProgramID, filters)
	if err != nil {
		return nil, err
	}
	keys := make([]types.Pubkey, 0, len(accounts))
	for _, acc := range accounts {
		keys = append(keys, acc.Pubkey)
	}
	return keys, nil
}

// parseReverse extracts the domain name from a reverse lookup payload:
// a u32 little-endian length followed by that many bytes of name.
func parseReverse(payload []byte) (string, error) {
	if len(payload) < 4 {
		return "", fmt.Errorf("%w: %d bytes", ErrBadReverse, len(payload))
	}
	length := binary.LittleEndian.Uint32(payload[:4])
	if int(length) > len(payload)-4 {
		return "", fmt.Errorf("%w: declared length %d exceeds payload", ErrBadReverse, length)
	}
	return string(payload[4 : 4+length]), nil
}
