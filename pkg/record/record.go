/*
Package record implements the codec for SPL Name Service domain records.

A record account stores the raw value of one typed piece of data attached
to a domain (a foreign chain address, an IP address, free text). Two
on-chain encodings coexist: an older free-form UTF-8 one and the current
fixed-width binary one. Deserialize tells them apart from the raw bytes
alone and validates the content against the declared record type.
*/
package record

import "fmt"

// Type identifies the kind of data stored in a domain record account.
// The set of types is closed, there is no dynamic registration.
type Type byte

const (
	IPFS Type = iota
	ARWV
	SOL
	ETH
	BTC
	LTC
	DOGE
	Email
	URL
	Discord
	Github
	Reddit
	Twitter
	Telegram
	Pic
	SHDW
	POINT
	BSC
	INJ
	Backpack
	A
	AAAA
	CNAME
	TXT
)

// String returns the canonical tag of the record type as used in
// subdomain derivation and user-facing commands.
func (t Type) String() string {
	switch t {
	case IPFS:
		return "IPFS"
	case ARWV:
		return "ARWV"
	case SOL:
		return "SOL"
	case ETH:
		return "ETH"
	case BTC:
		return "BTC"
	case LTC:
		return "LTC"
	case DOGE:
		return "DOGE"
	case Email:
		return "email"
	case URL:
		return "url"
	case Discord:
		return "discord"
	case Github:
		return "github"
	case Reddit:
		return "reddit"
	case Twitter:
		return "twitter"
	case Telegram:
		return "telegram"
	case Pic:
		return "pic"
	case SHDW:
		return "SHDW"
	case POINT:
		return "POINT"
	case BSC:
		return "BSC"
	case INJ:
		return "INJ"
	case Backpack:
		return "backpack"
	case A:
		return "A"
	case AAAA:
		return "AAAA"
	case CNAME:
		return "CNAME"
	case TXT:
		return "TXT"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// Types lists every supported record type.
var Types = []Type{
	IPFS, ARWV, SOL, ETH, BTC, LTC, DOGE,
	Email, URL, Discord, Github, Reddit, Twitter, Telegram, Pic,
	SHDW, POINT, BSC, INJ, Backpack,
	A, AAAA, CNAME, TXT,
}

// TypeFromString performs an exact-match lookup of a canonical tag. No
// case folding or fuzzy matching is done.
func TypeFromString(s string) (Type, error) {
	for _, t := range Types {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown record type %q", ErrUnknownType, s)
}

// Native encoding sizes. A SOL record is a 32 byte destination key
// followed by a 64 byte ed25519 signature.
const (
	solRecordSize  = 96
	ethRecordSize  = 20
	injRecordSize  = 20
	aRecordSize    = 4
	aaaaRecordSize = 16
)

// ExpectedSize returns the fixed native encoding length of the given
// record type. The second return value is false for variable-length
// text records.
func (t Type) ExpectedSize() (int, bool) {
	switch t {
	case SOL:
		return solRecordSize, true
	case ETH, BSC:
		return ethRecordSize, true
	case INJ:
		return injRecordSize, true
	case A:
		return aRecordSize, true
	case AAAA:
		return aaaaRecordSize, true
	default:
		return 0, false
	}
}
