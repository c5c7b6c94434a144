package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"strconv"
	"strings"
)

// MaxDigits is the longest code that still carries information: the
// truncated value is below 2^31, which has 10 decimal digits.
const MaxDigits = 10

// HOTP returns the RFC 4226 code of the given length for key and counter.
// digits must be in [1, MaxDigits].
func HOTP(key []byte, counter uint64, digits uint) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])

	return format(Truncate(mac.Sum(nil)), digits)
}

// Truncate applies RFC 4226 dynamic truncation to an HMAC-SHA1 digest: the
// low nibble of the last byte selects a 4-byte window, read big-endian with
// the sign bit cleared.
func Truncate(digest []byte) uint32 {
	offset := digest[len(digest)-1] & 0x0F
	return binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7FFFFFFF
}

var pow10 = [MaxDigits + 1]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000,
	10000000, 100000000, 1000000000, 10000000000,
}

func format(value uint32, digits uint) string {
	s := strconv.FormatUint(uint64(value)%pow10[digits], 10)
	if pad := int(digits) - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}
