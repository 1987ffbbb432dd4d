// Package base62 implements positional base-62 encoding of non-negative
// integers. It is the deterministic mapping between counter values and
// short codes: every integer has exactly one code and vice versa.
package base62

import (
	"errors"
	"fmt"
	"math"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalidCode is returned when a string cannot be decoded as base-62.
var ErrInvalidCode = errors.New("invalid base62 code")

var digits [256]int8

func init() {
	for i := range digits {
		digits[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		digits[alphabet[i]] = int8(i)
	}
}

// Encode converts n to its base-62 representation, most significant digit
// first, without padding. Encode(0) == "0".
func Encode(n int64) string {
	if n == 0 {
		return string(alphabet[0])
	}

	// 11 digits cover the full int64 range.
	var buf [11]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = alphabet[n%62]
		n /= 62
	}

	return string(buf[i:])
}

// Decode is the exact inverse of Encode. It rejects empty strings, bytes
// outside the alphabet and values that overflow int64.
func Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("base62.Decode: empty string: %w", ErrInvalidCode)
	}

	var n int64
	for i := 0; i < len(s); i++ {
		d := digits[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("base62.Decode: unexpected byte %q: %w", s[i], ErrInvalidCode)
		}

		if n > (math.MaxInt64-int64(d))/62 {
			return 0, fmt.Errorf("base62.Decode: value overflows int64: %w", ErrInvalidCode)
		}
		n = n*62 + int64(d)
	}

	return n, nil
}
