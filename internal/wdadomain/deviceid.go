// Package wdadomain holds the WDX gateway's core data model: device and
// parameter identifiers, relationship/resource shapes, and the
// request/response contracts the router and operation pipeline pass
// around. It has no knowledge of JSON:API wire format or HTTP transport —
// those live in internal/jsonapi and internal/router.
package wdadomain

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceID identifies a device by its bus slot and collection. The
// distinguished value (0, 0) is the headstation.
type DeviceID struct {
	Slot       int
	Collection int
}

// Headstation is the distinguished device id (0, 0).
var Headstation = DeviceID{Slot: 0, Collection: 0}

// IsHeadstation reports whether id identifies the headstation.
func (id DeviceID) IsHeadstation() bool {
	return id == Headstation
}

// String renders the device id as "slot-collection".
func (id DeviceID) String() string {
	return strconv.Itoa(id.Slot) + "-" + strconv.Itoa(id.Collection)
}

// ParseDeviceID parses the "slot-collection" form produced by String. The
// special literal "headstation" is accepted as an alias for (0, 0) by
// callers that choose to allow it (e.g. the `filter[device]` query value);
// ParseDeviceID itself only understands the numeric dash form.
func ParseDeviceID(s string) (DeviceID, error) {
	slot, collection, ok := splitOnce(s, '-')
	if !ok {
		return DeviceID{}, fmt.Errorf("invalid device id %q: expected \"slot-collection\"", s)
	}
	slotN, err := strconv.Atoi(slot)
	if err != nil {
		return DeviceID{}, fmt.Errorf("invalid device id %q: slot is not an integer", s)
	}
	collectionN, err := strconv.Atoi(collection)
	if err != nil {
		return DeviceID{}, fmt.Errorf("invalid device id %q: collection is not an integer", s)
	}
	return DeviceID{Slot: slotN, Collection: collectionN}, nil
}

func splitOnce(s string, sep byte) (string, string, bool) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
