package filterquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

func query(raw string) httpkit.Query {
	return httpkit.ParseURI("/x?" + raw).Query()
}

func TestParseParameterFilter_Flags(t *testing.T) {
	f, err := ParseParameterFilter(query("filter[beta]=true&filter[deprecated]=false"))
	require.Nil(t, err)
	assert.Equal(t, wdadomain.TriStateTrue, f.Beta)
	assert.Equal(t, wdadomain.TriStateFalse, f.Deprecated)
}

func TestParseParameterFilter_Device(t *testing.T) {
	f, err := ParseParameterFilter(query("filter[device]=headstation"))
	require.Nil(t, err)
	require.NotNil(t, f.Device)
	assert.Equal(t, wdadomain.Headstation, *f.Device)

	f2, err2 := ParseParameterFilter(query("filter[device]=1-2"))
	require.Nil(t, err2)
	assert.Equal(t, wdadomain.DeviceID{Slot: 1, Collection: 2}, *f2.Device)
}

func TestParseParameterFilter_UnknownName(t *testing.T) {
	_, err := ParseParameterFilter(query("filter[bogus]=true"))
	require.NotNil(t, err)
}

func TestParseParameterFilter_InvalidBoolValue(t *testing.T) {
	_, err := ParseParameterFilter(query("filter[beta]=yes"))
	require.NotNil(t, err)
}

func TestParsePagination_Defaults(t *testing.T) {
	p, capped, err := ParsePagination(query(""))
	require.Nil(t, err)
	assert.False(t, capped)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, DefaultPageOffset, p.Offset)
}

func TestParsePagination_Explicit(t *testing.T) {
	p, _, err := ParsePagination(query("page[limit]=10&page[offset]=20"))
	require.Nil(t, err)
	assert.Equal(t, uint32(10), p.Limit)
	assert.Equal(t, uint32(20), p.Offset)
}

func TestParsePagination_Invalid(t *testing.T) {
	_, _, err := ParsePagination(query("page[limit]=-1"))
	require.NotNil(t, err)
}

func TestParseInclude(t *testing.T) {
	segs := ParseInclude("parameters.value,other")
	assert.Equal(t, [][]string{{"parameters", "value"}, {"other"}}, segs)
	assert.True(t, Includes(segs, "parameters"))
	assert.False(t, Includes(segs, "bogus"))
}

func TestParseResultBehavior(t *testing.T) {
	b, err := ParseResultBehavior("sync", true)
	require.Nil(t, err)
	assert.Equal(t, wdadomain.ResultBehaviorSync, b)

	b2, err2 := ParseResultBehavior("", false)
	require.Nil(t, err2)
	assert.Equal(t, wdadomain.ResultBehaviorAny, b2)

	_, err3 := ParseResultBehavior("bogus", true)
	require.NotNil(t, err3)
}
