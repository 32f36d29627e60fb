package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/userstore/internal/codec"
	"github.com/roach88/userstore/internal/principal"
	"github.com/roach88/userstore/internal/user"
)

func TestJSON_RecordsRoundTrip(t *testing.T) {
	c := codec.JSON[[]user.Record]{}

	records := []user.Record{
		{Name: "alice", Email: "alice@example.com"},
		{Name: "<bob & co>", Email: "bob@example.com", ProfilePicture: []byte{0, 1, 2, 255}},
		{Name: "", Email: "", ProfilePicture: []byte{}},
	}

	data, err := c.Encode(records)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)

	again, err := c.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestJSON_EncodingIsStable(t *testing.T) {
	c := codec.JSON[user.Record]{}

	data, err := c.Encode(user.Record{Name: "a<b", Email: "e"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a<b","email":"e","profile_pic":null}`, string(data))
}

func TestJSON_RejectsInvalidUTF8(t *testing.T) {
	c := codec.JSON[[]user.Record]{}

	// JSON would silently rewrite these bytes to U+FFFD.
	for _, records := range [][]user.Record{
		{{Name: "a\xffb"}},
		{{Name: "ok"}, {Email: "\xc3"}},
	} {
		data, err := c.Encode(records)
		assert.ErrorIs(t, err, codec.ErrInvalidUTF8)
		assert.Nil(t, data)
	}

	// Arbitrary picture bytes are fine: they are base64 encoded.
	data, err := c.Encode([]user.Record{{Name: "U+FFFD \ufffd", ProfilePicture: []byte{0xff, 0xfe}}})
	require.NoError(t, err)
	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "U+FFFD \ufffd", decoded[0].Name)
}

func TestJSON_RejectsInvalidUTF8InMaps(t *testing.T) {
	c := codec.JSON[map[string]*string]{}
	bad := "x\x80"

	_, err := c.Encode(map[string]*string{"k": &bad})
	assert.ErrorIs(t, err, codec.ErrInvalidUTF8)

	_, err = c.Encode(map[string]*string{"\x80": nil})
	assert.ErrorIs(t, err, codec.ErrInvalidUTF8)
}

func TestJSON_DecodeCorrupt(t *testing.T) {
	c := codec.JSON[[]user.Record]{}

	for _, input := range []string{
		"",
		"not json",
		`[{"name":1}]`,
		`[{"name":"a","unknown":true}]`,
		`[]x`,
	} {
		_, err := c.Decode([]byte(input))
		assert.ErrorIs(t, err, codec.ErrCorrupt, "input %q", input)
	}
}

func TestPrincipalKey_RoundTrip(t *testing.T) {
	c := codec.PrincipalKey{}
	p := principal.SelfAuthenticating([]byte("pk"))

	data, err := c.Encode(p)
	require.NoError(t, err)
	assert.Len(t, data, principal.BlobSize)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)

	again, err := c.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestPrincipalKey_DecodeCorrupt(t *testing.T) {
	_, err := codec.PrincipalKey{}.Decode([]byte{1, 2})
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}
