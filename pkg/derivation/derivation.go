/*
Package derivation computes the on-chain storage keys of SPL Name
Service accounts: domain registries, subdomains, record accounts and
reverse-lookup entries. All derivation is deterministic hashing, no
network access is involved.
*/
package derivation

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// HashPrefix is prepended to every name before hashing to avoid
// collisions with other programs deriving from the same seed space.
const HashPrefix = "SPL Name Service"

// pdaMarker terminates the seed list of a program-derived address.
const pdaMarker = "ProgramDerivedAddress"

const maxSeedLength = 32

var (
	// NameProgramID is the SPL Name Service program.
	NameProgramID = types.MustPubkey("namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX")
	// RootDomainAccount is the parent of every .sol domain.
	RootDomainAccount = types.MustPubkey("58PwtjSDuFHuUkYjH9BYnnQKHfwo9reZhC2zMJv9JPkx")
	// ReverseLookupClass is the name class under which reverse-lookup
	// accounts (domain key -> domain name) are derived.
	ReverseLookupClass = types.MustPubkey("33m47vH6Eav6jr5Ry86XjhRft2jRBLDnDgPSHoquXi2Z")
)

// Name prefixes distinguishing subdomain registries from record
// accounts under the same parent.
const (
	SubdomainPrefix = "\x00"
	RecordPrefix    = "\x01"
)

var (
	// ErrInvalidDomain is returned for domains nested deeper than one
	// subdomain level.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrSeedTooLong is returned when a derivation seed exceeds the
	// 32 byte limit.
	ErrSeedTooLong = errors.New("seed exceeds maximum length")
	// errOnCurve reports a candidate address that is a valid curve
	// point and therefore not usable as a program address.
	errOnCurve = errors.New("candidate is on the ed25519 curve")
)

// HashedName returns sha256(HashPrefix || name), the seed under which
// the name service stores the given name.
func HashedName(name string) []byte {
	h := sha256.Sum256([]byte(HashPrefix + name))
	return h[:]
}

// NameAccountKey derives the storage key of a name account from its
// hashed name, an optional class and an optional parent (zero value
// for neither).
func NameAccountKey(hashedName []byte, class, parent types.Pubkey) (types.Pubkey, error) {
	seeds := [][]byte{hashedName, class.Bytes(), parent.Bytes()}
	key, _, err := FindProgramAddress(seeds, NameProgramID)
	return key, err
}

// FindProgramAddress finds the first off-curve program-derived address
// for the given seeds, walking the bump seed down from 255. It returns
// the address and the bump that produced it.
func FindProgramAddress(seeds [][]byte, program types.Pubkey) (types.Pubkey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		full := make([][]byte, 0, len(seeds)+1)
		full = append(full, seeds...)
		full = append(full, []byte{byte(bump)})
		key, err := ProgramAddress(full, program)
		if err == nil {
			return key, uint8(bump), nil
		}
		if !errors.Is(err, errOnCurve) {
			return types.Pubkey{}, 0, err
		}
	}
	return types.Pubkey{}, 0, errors.New("unable to find a viable program address")
}

// ProgramAddress computes the program-derived address for the exact
// seed list. It fails if any seed is too long or if the result lands on
// the ed25519 curve (and could therefore have a private key).
func ProgramAddress(seeds [][]byte, program types.Pubkey) (types.Pubkey, error) {
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return types.Pubkey{}, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(seed))
		}
		h.Write(seed)
	}
	h.Write(program.Bytes())
	h.Write([]byte(pdaMarker))
	sum := h.Sum(nil)
	if isOnCurve(sum) {
		return types.Pubkey{}, errOnCurve
	}
	return types.PubkeyFromBytes(sum)
}

// DomainKey derives the storage key for a domain, a subdomain or (with
// record set) a record account. The .sol suffix is optional.
func DomainKey(domain string, record bool) (types.Pubkey, error) {
	domain = strings.TrimSuffix(domain, ".sol")
	parts := strings.Split(domain, ".")
	switch len(parts) {
	case 1:
		return NameAccountKey(HashedName(domain), types.Pubkey{}, RootDomainAccount)
	case 2:
		parent, err := NameAccountKey(HashedName(parts[1]), types.Pubkey{}, RootDomainAccount)
		if err != nil {
			return types.Pubkey{}, err
		}
		prefix := SubdomainPrefix
		if record {
			prefix = RecordPrefix
		}
		return NameAccountKey(HashedName(prefix+parts[0]), types.Pubkey{}, parent)
	default:
		return types.Pubkey{}, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
}

// RecordKey derives the record account of the given record tag under a
// domain, i.e. DomainKey of "tag.domain" on the record path.
func RecordKey(domain, tag string) (types.Pubkey, error) {
	return DomainKey(tag+"."+strings.TrimSuffix(domain, ".sol"), true)
}

// ReverseLookupKey derives the account holding the human-readable name
// of the given name account.
func ReverseLookupKey(nameAccount types.Pubkey) (types.Pubkey, error) {
	return NameAccountKey(HashedName(nameAccount.String()), ReverseLookupClass, types.Pubkey{})
}

// isOnCurve reports whether b decodes to a valid edwards25519 point.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
