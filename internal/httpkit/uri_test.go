package httpkit

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURLComponent_LeavesUnreservedUntouched(t *testing.T) {
	in := "AZaz09-_.~"
	assert.Equal(t, in, EncodeURLComponent(in))
}

func TestEncodeURLComponent_EscapesOtherBytes(t *testing.T) {
	assert.Equal(t, "%2f", EncodeURLComponent("/"))
	assert.Equal(t, "a%20b", EncodeURLComponent("a b"))
	assert.Equal(t, "%e2%82%ac", EncodeURLComponent("€")) // euro sign, UTF-8
}

func TestDecodeURLComponent_PlusIsSpace(t *testing.T) {
	assert.Equal(t, "a b", DecodeURLComponent("a+b"))
}

func TestDecodeURLComponent_HexCaseInsensitive(t *testing.T) {
	assert.Equal(t, "/", DecodeURLComponent("%2F"))
	assert.Equal(t, "/", DecodeURLComponent("%2f"))
}

func TestDecodeURLComponent_MalformedTailPassedThroughLiterally(t *testing.T) {
	assert.Equal(t, "%", DecodeURLComponent("%"))
	assert.Equal(t, "%2", DecodeURLComponent("%2"))
	assert.Equal(t, "%zz", DecodeURLComponent("%zz"))
}

func TestRoundTrip_DecodeOfEncodeIsIdentity(t *testing.T) {
	f := func(s string) bool {
		return DecodeURLComponent(EncodeURLComponent(s)) == s
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

func TestParseURI_SplitsPathAndQuery(t *testing.T) {
	u := ParseURI("/wda/devices?page[limit]=10&page[offset]=5")
	assert.Equal(t, "/wda/devices", u.Path)
	q := u.Query()
	v, ok := q.Get("page[limit]")
	require.True(t, ok)
	assert.Equal(t, "10", v)
}

func TestParseURI_NoQuery(t *testing.T) {
	u := ParseURI("/wda/devices")
	assert.Equal(t, "/wda/devices", u.Path)
	assert.Empty(t, u.RawQuery)
}

func TestQuery_RepeatedKeyPreservesAllValues(t *testing.T) {
	u := ParseURI("/x?a=1&a=2")
	assert.Equal(t, []string{"1", "2"}, u.Query().All("a"))
}

func TestParseUint32Bounded(t *testing.T) {
	v, ok := ParseUint32Bounded("255")
	require.True(t, ok)
	assert.Equal(t, uint32(255), v)

	_, ok = ParseUint32Bounded("-1")
	assert.False(t, ok)
	_, ok = ParseUint32Bounded("abc")
	assert.False(t, ok)
	_, ok = ParseUint32Bounded("99999999999999")
	assert.False(t, ok)
}
