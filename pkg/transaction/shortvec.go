package transaction

import "errors"

// Array lengths in the Solana wire format are "shortvec" encoded: a
// little-endian base-128 varint capped at three bytes (u16 range).

const maxShortVecBytes = 3

// ErrBadLength is returned when a shortvec length prefix is truncated
// or overlong.
var ErrBadLength = errors.New("invalid shortvec length")

func appendShortVecLen(buf []byte, n int) []byte {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

func readShortVecLen(data []byte) (int, int, error) {
	var value, shift int
	for i := 0; i < maxShortVecBytes; i++ {
		if i >= len(data) {
			return 0, 0, ErrBadLength
		}
		b := data[i]
		value |= int(b&0x7f) << shift
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, 0, ErrBadLength
			}
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrBadLength
}
