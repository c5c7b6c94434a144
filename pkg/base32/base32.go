// Package base32 implements the RFC 4648 base32 encoding used for TOTP
// shared secrets.
//
// Encoding always pads to a multiple of 8 characters. Decoding is strict
// about the padding run, the alphabet and non-canonical trailing bits, so a
// malformed secret is reported as an error rather than silently keying HMAC
// with the wrong bytes.
package base32

import (
	stdbase32 "encoding/base32"
	"errors"
	"fmt"
)

// Alphabet is the RFC 4648 base32 symbol set. The symbol for value v is
// Alphabet[v].
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// Padding is the padding sentinel. It never carries data.
const Padding = '='

var (
	// ErrInvalidPadding indicates a padding run of a length RFC 4648 does not
	// permit, padding inside the data, or non-zero bits under the padding.
	ErrInvalidPadding = errors.New("base32: invalid padding")
	// ErrInvalidAlphabet indicates a symbol outside A-Z and 2-7.
	ErrInvalidAlphabet = errors.New("base32: invalid character")
)

// CorruptInputError reports the offset of the first malformed byte.
type CorruptInputError struct {
	Offset int
	Err    error
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("%v at input byte %d", e.Err, e.Offset)
}

func (e *CorruptInputError) Unwrap() error {
	return e.Err
}

const invalidSymbol = 0xFF

var decodeMap = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = invalidSymbol
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = byte(i)
	}
	return m
}()

// validPadding lists the trailing '=' counts allowed for 8-symbol blocks.
var validPadding = [...]bool{0: true, 1: true, 3: true, 4: true, 6: true}

var encoding = stdbase32.StdEncoding

// Encode returns the padded base32 encoding of src.
func Encode(src []byte) string {
	return encoding.EncodeToString(src)
}

// Decode returns the bytes represented by the base32 string s.
//
// The trailing '=' run must be 0, 1, 3, 4 or 6 characters long and padded
// input must be a whole number of 8-character blocks, with zero bits under
// the padding. Unpadded input of any length is accepted: a short final block
// is completed with zero-valued symbols and decodes to a full 5 bytes, which
// is how secrets with a length that is not a multiple of 8 are keyed. An
// empty string decodes to an empty slice.
func Decode(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}

	end := len(s)
	for end > 0 && s[end-1] == Padding {
		end--
	}
	pad := len(s) - end
	if pad >= len(validPadding) || !validPadding[pad] {
		return nil, &CorruptInputError{Offset: end, Err: ErrInvalidPadding}
	}
	if pad > 0 && len(s)%8 != 0 {
		return nil, &CorruptInputError{Offset: len(s), Err: ErrInvalidPadding}
	}

	for i := 0; i < end; i++ {
		c := s[i]
		if c == Padding {
			return nil, &CorruptInputError{Offset: i, Err: ErrInvalidPadding}
		}
		if decodeMap[c] == invalidSymbol {
			return nil, &CorruptInputError{Offset: i, Err: ErrInvalidAlphabet}
		}
	}

	out := make([]byte, 0, (end+7)/8*5)
	var acc uint16
	var bits uint
	for i := 0; i < end; i++ {
		acc = acc<<5 | uint16(decodeMap[s[i]])
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}

	if pad == 0 && end%8 != 0 {
		if bits > 0 {
			out = append(out, byte(acc<<(8-bits)))
		}
		for len(out) < cap(out) {
			out = append(out, 0)
		}
		return out, nil
	}

	if bits > 0 && acc != 0 {
		return nil, &CorruptInputError{Offset: end - 1, Err: ErrInvalidPadding}
	}

	return out, nil
}

