// Package principal implements owner identities used as store keys.
//
// A Principal is an opaque identifier of at most 29 bytes. Principals are
// ordered by their raw bytes, and that order is what the store iterates in.
package principal

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

// MaxLength is the maximum number of raw bytes in a principal.
const MaxLength = 29

const (
	tagSelfAuthenticating = 0x02
	tagAnonymous          = 0x04
)

var (
	// ErrTooLong is returned when raw bytes exceed MaxLength.
	ErrTooLong = errors.New("principal: length exceeds 29 bytes")
	// ErrInvalidText is returned when a textual principal cannot be parsed.
	ErrInvalidText = errors.New("principal: invalid text encoding")
	// ErrChecksum is returned when the textual checksum does not match.
	ErrChecksum = errors.New("principal: checksum mismatch")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is a caller identity.
// The zero value is the management principal (empty raw bytes).
type Principal struct {
	raw string
}

// Anonymous is the identity of unauthenticated callers.
var Anonymous = Principal{raw: string([]byte{tagAnonymous})}

// FromBytes builds a principal from raw bytes.
func FromBytes(b []byte) (Principal, error) {
	if len(b) > MaxLength {
		return Principal{}, fmt.Errorf("%w: got %d", ErrTooLong, len(b))
	}
	return Principal{raw: string(b)}, nil
}

// MustFromBytes is like FromBytes but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFromBytes(b []byte) Principal {
	p, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return p
}

// SelfAuthenticating derives the principal owned by a public key:
// SHA-224(pubKey) followed by the self-authenticating tag byte.
func SelfAuthenticating(pubKey []byte) Principal {
	sum := sha256.Sum224(pubKey)
	raw := make([]byte, 0, len(sum)+1)
	raw = append(raw, sum[:]...)
	raw = append(raw, tagSelfAuthenticating)
	return Principal{raw: string(raw)}
}

// FromText parses the dash-grouped base32 form produced by String.
func FromText(text string) (Principal, error) {
	compact := strings.ReplaceAll(text, "-", "")
	decoded, err := encoding.DecodeString(strings.ToUpper(compact))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	if len(decoded) < crc32.Size {
		return Principal{}, fmt.Errorf("%w: too short", ErrInvalidText)
	}

	sum, raw := decoded[:crc32.Size], decoded[crc32.Size:]
	if binary.BigEndian.Uint32(sum) != crc32.ChecksumIEEE(raw) {
		return Principal{}, ErrChecksum
	}

	p, err := FromBytes(raw)
	if err != nil {
		return Principal{}, err
	}
	// Reject non-canonical spellings so that text and bytes stay one-to-one.
	if p.String() != text {
		return Principal{}, fmt.Errorf("%w: not canonical (want %q)", ErrInvalidText, p.String())
	}
	return p, nil
}

// Bytes returns a copy of the raw bytes.
func (p Principal) Bytes() []byte {
	return []byte(p.raw)
}

// Len returns the number of raw bytes.
func (p Principal) Len() int {
	return len(p.raw)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

// Compare orders principals by raw bytes.
func (p Principal) Compare(other Principal) int {
	return bytes.Compare([]byte(p.raw), []byte(other.raw))
}

// String renders the textual form: base32 of CRC-32 ‖ raw, lowercase,
// grouped in runs of five characters separated by '-'.
func (p Principal) String() string {
	buf := make([]byte, crc32.Size, crc32.Size+len(p.raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE([]byte(p.raw)))
	buf = append(buf, p.raw...)

	s := strings.ToLower(encoding.EncodeToString(buf))

	var b strings.Builder
	for i := 0; i < len(s); i += 5 {
		if i > 0 {
			b.WriteByte('-')
		}
		end := min(i+5, len(s))
		b.WriteString(s[i:end])
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := FromText(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
