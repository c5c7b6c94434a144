package base32

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 4648 section 10 test vectors.
var rfcVectors = []struct {
	decoded string
	encoded string
}{
	{"", ""},
	{"f", "MY======"},
	{"fo", "MZXQ===="},
	{"foo", "MZXW6==="},
	{"foob", "MZXW6YQ="},
	{"fooba", "MZXW6YTB"},
	{"foobar", "MZXW6YTBOI======"},
}

func TestEncodeRFCVectors(t *testing.T) {
	for _, v := range rfcVectors {
		assert.Equal(t, v.encoded, Encode([]byte(v.decoded)), "encode %q", v.decoded)
	}
}

func TestDecodeRFCVectors(t *testing.T) {
	for _, v := range rfcVectors {
		got, err := Decode(v.encoded)
		require.NoError(t, err, "decode %q", v.encoded)
		assert.Equal(t, []byte(v.decoded), got, "decode %q", v.encoded)
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode("")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeKnownSecret(t *testing.T) {
	got, err := Decode("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello!\xde\xad\xbe\xef"), got)
}

func TestRoundTrip(t *testing.T) {
	for n := 0; n <= 130; n++ {
		src := make([]byte, n)
		_, err := rand.Read(src)
		require.NoError(t, err)

		enc := Encode(src)
		require.Zero(t, len(enc)%8, "encoded length of %d bytes", n)

		dec, err := Decode(enc)
		require.NoError(t, err, "length %d: %q", n, enc)
		require.Equal(t, src, dec, "length %d", n)
	}
}

func TestDecodeUnpadded(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"short block zero filled", "MY", []byte{0x66, 0, 0, 0, 0}},
		{"non-zero trailing bits kept", "MZ", []byte{0x66, 0x40, 0, 0, 0}},
		{"single symbol", "A", []byte{0, 0, 0, 0, 0}},
		{"single non-zero symbol", "H", []byte{0x38, 0, 0, 0, 0}},
		{"full block", "MZXW6YTB", []byte("fooba")},
		{"full block then short block", "MZXW6YTBOI", []byte("foobar\x00\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// decodeGroups decodes unpadded base32 one 8-symbol group at a time, with
// missing symbols in the last group taken as zero. Every group yields 5
// bytes.
func decodeGroups(s string) []byte {
	var out []byte
	for i := 0; i < len(s); i += 8 {
		var v uint64
		for j := 0; j < 8; j++ {
			v <<= 5
			if i+j < len(s) {
				v |= uint64(strings.IndexByte(Alphabet, s[i+j]))
			}
		}
		for shift := 32; shift >= 0; shift -= 8 {
			out = append(out, byte(v>>shift))
		}
	}
	return out
}

func TestDecodeUnpaddedMatchesGroupDecoding(t *testing.T) {
	buf := make([]byte, 130)
	for n := 1; n <= len(buf); n++ {
		_, err := rand.Read(buf[:n])
		require.NoError(t, err)

		s := make([]byte, n)
		for i := range s {
			s[i] = Alphabet[buf[i]&0x1F]
		}

		got, err := Decode(string(s))
		require.NoError(t, err, "length %d: %s", n, s)
		require.Equal(t, decodeGroups(string(s)), got, "length %d: %s", n, s)
		require.Len(t, got, (n+7)/8*5)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		offset  int
	}{
		{"two padding characters", "MZXW6Y==", ErrInvalidPadding, 6},
		{"five padding characters", "MZX=====", ErrInvalidPadding, 3},
		{"seven padding characters", "M=======", ErrInvalidPadding, 1},
		{"only padding", "========", ErrInvalidPadding, 0},
		{"internal padding", "MZ=W6YTB", ErrInvalidPadding, 2},
		{"internal padding before valid run", "M=XW6===", ErrInvalidPadding, 1},
		{"padded input not block aligned", "MZXW6YTBMY=", ErrInvalidPadding, 11},
		{"non-zero bits under padding", "MZ======", ErrInvalidPadding, 1},
		{"lower case", "mzxw6ytb", ErrInvalidAlphabet, 0},
		{"digit one", "MZXW6YT1", ErrInvalidAlphabet, 7},
		{"digit eight", "8ZXW6YTB", ErrInvalidAlphabet, 0},
		{"digit zero", "MZXW0YTB", ErrInvalidAlphabet, 4},
		{"whitespace", "MZXW 6YT", ErrInvalidAlphabet, 4},
		{"punctuation", "invalid@secret!", ErrInvalidAlphabet, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)

			var corrupt *CorruptInputError
			require.True(t, errors.As(err, &corrupt))
			assert.Equal(t, tt.offset, corrupt.Offset)
		})
	}
}

func TestAlphabet(t *testing.T) {
	require.Len(t, Alphabet, 32)
	seen := make(map[rune]bool, len(Alphabet))
	for _, c := range Alphabet {
		assert.False(t, seen[c], "duplicate symbol %q", c)
		seen[c] = true
	}
	assert.NotContains(t, Alphabet, string(Padding))
}
