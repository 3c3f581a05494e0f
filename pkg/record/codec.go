package record

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

// injHRP is the human-readable prefix of bech32-encoded Injective
// addresses.
const injHRP = "inj"

// Deserialize decodes the raw bytes of a record account into their
// human-readable form. recordKey is the account the bytes were read
// from; SOL records bind their ownership signature to it.
//
// Fixed-size record types come in two encodings. The current one packs
// the value into exactly the expected number of bytes; the pre-existing
// one stored the value as trimmed UTF-8 text. The two are told apart by
// the significant length of the buffer, i.e. with trailing zero bytes
// stripped: only a natively encoded record fills the expected size
// exactly.
func Deserialize(data []byte, t Type, recordKey types.Pubkey) (string, error) {
	size, fixed := t.ExpectedSize()
	if !fixed {
		trimmed := bytes.TrimRight(data, "\x00")
		if !utf8.Valid(trimmed) {
			return "", ErrInvalidUTF8
		}
		return string(trimmed), nil
	}

	idx := significantLength(data)
	if idx != size {
		// Old record, UTF-8 encoded.
		if !utf8.Valid(data[:idx]) {
			return "", ErrInvalidUTF8
		}
		content := string(data[:idx])
		if err := validateLegacy(content, t); err != nil {
			return "", err
		}
		return content, nil
	}

	switch t {
	case SOL:
		dst := data[:types.PubkeySize]
		// Everything past the key must be exactly the signature,
		// trailing padding makes the record invalid.
		signature := data[types.PubkeySize:]
		message := make([]byte, 0, len(dst)+types.PubkeySize)
		message = append(message, dst...)
		message = append(message, recordKey.Bytes()...)
		valid, err := VerifySignature(message, signature, dst)
		if err != nil || !valid {
			// A broken signature and an unverifiable one are reported
			// the same way, the value must not be trusted either way.
			return "", ErrInvalidData
		}
		pk, err := types.PubkeyFromBytes(dst)
		if err != nil {
			return "", ErrInvalidData
		}
		return pk.String(), nil
	case ETH, BSC:
		return "0x" + hex.EncodeToString(data[:size]), nil
	case INJ:
		return encodeBech32(injHRP, data[:size])
	case A:
		return net.IP(data[:size]).String(), nil
	case AAAA:
		return net.IP(data[:size]).String(), nil
	default:
		// Every fixed-size type is handled above; reaching this branch
		// means ExpectedSize and the dispatch disagree.
		return "", ErrInvalidData
	}
}

// Serialize encodes a human-readable record value into its native
// fixed-width byte layout (or raw UTF-8 for text record types). SOL
// records additionally carry an ownership signature and must be built
// with SerializeSol.
func Serialize(content string, t Type) ([]byte, error) {
	size, fixed := t.ExpectedSize()
	if !fixed {
		return []byte(content), nil
	}

	switch t {
	case SOL:
		return nil, fmt.Errorf("%w: SOL records require a signer, use SerializeSol", ErrInvalidData)
	case ETH, BSC:
		hexPart := strings.TrimPrefix(content, "0x")
		if hexPart == content {
			return nil, fmt.Errorf("%w: missing 0x prefix", ErrInvalidData)
		}
		decoded, err := hex.DecodeString(hexPart)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
		}
		if len(decoded) != size {
			return nil, fmt.Errorf("%w: address is %d bytes, want %d", ErrInvalidData, len(decoded), size)
		}
		return decoded, nil
	case INJ:
		decoded, err := decodeBech32(injHRP, content)
		if err != nil {
			return nil, err
		}
		if len(decoded) != size {
			return nil, fmt.Errorf("%w: address is %d bytes, want %d", ErrInvalidData, len(decoded), size)
		}
		return decoded, nil
	case A:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidData, content)
		}
		return ip.To4(), nil
	case AAAA:
		ip := net.ParseIP(content)
		if ip == nil || !isIPv6(content) {
			return nil, fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidData, content)
		}
		return ip.To16(), nil
	default:
		return nil, ErrInvalidData
	}
}

// SerializeSol builds the 96 byte native layout of a SOL record:
// the destination key followed by the owner's signature over the
// destination key concatenated with the record account the bytes are
// going to be stored at. Binding the signature to the location keeps a
// valid record from being replayed under another domain.
func SerializeSol(dst, recordKey types.Pubkey, signer Signer) ([]byte, error) {
	message := make([]byte, 0, 2*types.PubkeySize)
	message = append(message, dst.Bytes()...)
	message = append(message, recordKey.Bytes()...)
	signature, err := signer.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("signing SOL record: %w", err)
	}
	if len(signature) != types.SignatureSize {
		return nil, fmt.Errorf("%w: signer produced %d bytes", ErrMalformedSignature, len(signature))
	}
	return append(dst.Bytes(), signature...), nil
}

// significantLength returns the index one past the last non-zero byte,
// 0 if the buffer is empty or all zero.
func significantLength(data []byte) int {
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// validateLegacy checks that legacy-path text parses as the address or
// IP format its record type requires.
func validateLegacy(content string, t Type) error {
	switch t {
	case INJ:
		decoded, err := decodeBech32(injHRP, content)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidReverse, err)
		}
		if len(decoded) != injRecordSize {
			return fmt.Errorf("%w: bech32 payload is %d bytes, want %d", ErrInvalidReverse, len(decoded), injRecordSize)
		}
		return nil
	case ETH, BSC:
		hexPart := strings.TrimPrefix(content, "0x")
		if hexPart == content {
			return fmt.Errorf("%w: missing 0x prefix", ErrInvalidReverse)
		}
		decoded, err := hex.DecodeString(hexPart)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidReverse, err)
		}
		if len(decoded) != ethRecordSize {
			return fmt.Errorf("%w: address is %d bytes, want %d", ErrInvalidReverse, len(decoded), ethRecordSize)
		}
		return nil
	case A:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidReverse, content)
		}
		return nil
	case AAAA:
		if net.ParseIP(content) == nil || !isIPv6(content) {
			return fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidReverse, content)
		}
		return nil
	default:
		// SOL records never had a legacy text form.
		return ErrInvalidReverse
	}
}

func encodeBech32(hrp string, data []byte) (string, error) {
	grouped, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidData, err)
	}
	encoded, err := bech32.Encode(hrp, grouped)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidData, err)
	}
	return encoded, nil
}

func decodeBech32(wantHRP, s string) ([]byte, error) {
	hrp, grouped, err := bech32.Decode(s)
	if err != nil {
		return nil, err
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("prefix is %q, want %q", hrp, wantHRP)
	}
	return bech32.ConvertBits(grouped, 5, 8, false)
}

// isIPv6 reports whether s uses IPv6 notation. net.ParseIP accepts both
// families, the syntax is told apart by the separator.
func isIPv6(s string) bool {
	return strings.Contains(s, ":")
}
