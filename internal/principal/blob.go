package principal

import (
	"errors"
	"fmt"
)

// BlobSize is the fixed size of an encoded key: MaxLength data bytes
// followed by one length byte.
const BlobSize = MaxLength + 1

// ErrInvalidBlob is returned by DecodeBlob for malformed key bytes.
var ErrInvalidBlob = errors.New("principal: invalid blob")

// Blob packs p into a fixed-size key.
//
// The raw bytes are zero-padded to MaxLength and the true length is stored in
// the last byte. Byte-wise comparison of two blobs gives the same order as
// comparing the raw principals, so blobs can be used directly as ordered keys.
func (p Principal) Blob() [BlobSize]byte {
	var blob [BlobSize]byte
	copy(blob[:], p.raw)
	blob[MaxLength] = byte(len(p.raw))
	return blob
}

// DecodeBlob is the inverse of Blob.
func DecodeBlob(b []byte) (Principal, error) {
	if len(b) != BlobSize {
		return Principal{}, fmt.Errorf("%w: size %d, want %d", ErrInvalidBlob, len(b), BlobSize)
	}
	n := int(b[MaxLength])
	if n > MaxLength {
		return Principal{}, fmt.Errorf("%w: length byte %d", ErrInvalidBlob, n)
	}
	for _, pad := range b[n:MaxLength] {
		if pad != 0 {
			return Principal{}, fmt.Errorf("%w: non-zero padding", ErrInvalidBlob)
		}
	}
	return Principal{raw: string(b[:n])}, nil
}
