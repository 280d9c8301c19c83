package wdadomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceID_String(t *testing.T) {
	assert.Equal(t, "0-0", Headstation.String())
	assert.Equal(t, "1-2", DeviceID{Slot: 1, Collection: 2}.String())
}

func TestDeviceID_IsHeadstation(t *testing.T) {
	assert.True(t, Headstation.IsHeadstation())
	assert.False(t, DeviceID{Slot: 1}.IsHeadstation())
}

func TestParseDeviceID_RoundTrip(t *testing.T) {
	id, err := ParseDeviceID("3-7")
	require.NoError(t, err)
	assert.Equal(t, DeviceID{Slot: 3, Collection: 7}, id)
	assert.Equal(t, "3-7", id.String())
}

func TestParseDeviceID_Invalid(t *testing.T) {
	for _, s := range []string{"", "no-dash-missing", "a-b", "1"} {
		_, err := ParseDeviceID(s)
		assert.Error(t, err, s)
	}
}
