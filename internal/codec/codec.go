// Package codec converts typed values to and from the byte sequences kept
// by storage engines.
//
// Storage only ever holds bytes written by these codecs, so a decode failure
// means the stored data is corrupt. Decode errors wrap ErrCorrupt so callers
// can abort the current operation without guessing at the cause.
//
// Encoding never alters a value: strings that are not valid UTF-8 would be
// rewritten by JSON, so Encode rejects them with ErrInvalidUTF8 instead.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/roach88/userstore/internal/principal"
)

// ErrCorrupt is wrapped by every Decode error.
var ErrCorrupt = errors.New("codec: corrupt stored bytes")

// ErrInvalidUTF8 is returned by JSON.Encode for values holding a string
// that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("codec: string is not valid UTF-8")

// Codec is a bidirectional byte encoding for values of type T.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSON encodes values as compact JSON.
//
// Output is deterministic for struct and slice types: fields appear in
// declaration order and HTML characters are not escaped.
type JSON[T any] struct{}

// Encode implements Codec.
func (JSON[T]) Encode(v T) ([]byte, error) {
	if hasInvalidUTF8(reflect.ValueOf(v)) {
		return nil, fmt.Errorf("codec: encode %T: %w", v, ErrInvalidUTF8)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: encode %T: %w", v, err)
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Decode implements Codec.
func (JSON[T]) Decode(data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if dec.More() {
		var zero T
		return zero, fmt.Errorf("%w: trailing data", ErrCorrupt)
	}
	return v, nil
}

// hasInvalidUTF8 reports whether any string reachable through exported
// fields, elements, map entries or pointers of v is not valid UTF-8.
// Byte slices are base64 encoded and are not inspected.
func hasInvalidUTF8(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return !utf8.ValidString(v.String())
	case reflect.Pointer, reflect.Interface:
		return !v.IsNil() && hasInvalidUTF8(v.Elem())
	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			if t.Field(i).IsExported() && hasInvalidUTF8(v.Field(i)) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return false
		}
		for i := range v.Len() {
			if hasInvalidUTF8(v.Index(i)) {
				return true
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if hasInvalidUTF8(iter.Key()) || hasInvalidUTF8(iter.Value()) {
				return true
			}
		}
	}
	return false
}

// PrincipalKey encodes principals as fixed-size ordered blobs.
type PrincipalKey struct{}

// Encode implements Codec.
func (PrincipalKey) Encode(p principal.Principal) ([]byte, error) {
	blob := p.Blob()
	return blob[:], nil
}

// Decode implements Codec.
func (PrincipalKey) Decode(data []byte) (principal.Principal, error) {
	p, err := principal.DecodeBlob(data)
	if err != nil {
		return principal.Principal{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return p, nil
}
