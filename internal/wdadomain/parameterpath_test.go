package wdadomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterInstancePath_String(t *testing.T) {
	p := ParameterInstancePath{Device: DeviceID{Slot: 1, Collection: 2}, Path: "app/var1"}
	assert.Equal(t, "1-2-app-var1", p.String())
}

func TestParseParameterInstancePath_RoundTrip(t *testing.T) {
	p, err := ParseParameterInstancePath("0-0-app-var1")
	require.NoError(t, err)
	assert.Equal(t, Headstation, p.Device)
	assert.Equal(t, ParameterPath("app/var1"), p.Path)
	assert.Equal(t, "0-0-app-var1", p.String())
}

func TestParseParameterInstancePath_Unknown(t *testing.T) {
	for _, s := range []string{"", "0-0", "x-y-z"} {
		_, err := ParseParameterInstancePath(s)
		assert.ErrorIs(t, err, ErrUnknownParameterPath, s)
	}
}
