// Package filterquery parses the gateway's query-string grammar:
// filter[...] parameter filters, page[...] pagination, include=a.b,c
// relationship-path lists, and the result-behavior selector.
package filterquery

import (
	"fmt"
	"strings"

	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// QueryError is how every filterquery parsing failure is reported: a
// source pointer (for building a BadRequest *jsonapi.Error without this
// package importing jsonapi) and a message.
type QueryError struct {
	Pointer string
	Message string
}

func (e *QueryError) Error() string { return e.Message }

func newQueryError(pointer, format string, args ...any) *QueryError {
	return &QueryError{Pointer: pointer, Message: fmt.Sprintf(format, args...)}
}

// ParseParameterFilter extracts every `filter[...]` query parameter into a
// wdadomain.ParameterFilter. Recognized names: beta, deprecated, writeable,
// userSetting, device, path. Any other filter[...] name, or a value that
// doesn't parse for its axis, is reported as a QueryError.
func ParseParameterFilter(q httpkit.Query) (wdadomain.ParameterFilter, *QueryError) {
	var f wdadomain.ParameterFilter
	for _, key := range q.Keys() {
		name, ok := filterKeyName(key)
		if !ok {
			continue
		}
		value, _ := q.Get(key)
		switch name {
		case "beta":
			ts, err := parseTriState(value)
			if err != nil {
				return f, newQueryError("filter[beta]", "invalid filter[beta] value %q", value)
			}
			f.Beta = ts
		case "deprecated":
			ts, err := parseTriState(value)
			if err != nil {
				return f, newQueryError("filter[deprecated]", "invalid filter[deprecated] value %q", value)
			}
			f.Deprecated = ts
		case "writeable":
			ts, err := parseTriState(value)
			if err != nil {
				return f, newQueryError("filter[writeable]", "invalid filter[writeable] value %q", value)
			}
			f.Writeable = ts
		case "userSetting":
			ts, err := parseTriState(value)
			if err != nil {
				return f, newQueryError("filter[userSetting]", "invalid filter[userSetting] value %q", value)
			}
			f.UserSetting = ts
		case "device":
			dev, err := parseFilterDevice(value)
			if err != nil {
				return f, newQueryError("filter[device]", "invalid filter[device] value %q", value)
			}
			f.Device = &dev
		case "path":
			if value == "" {
				return f, newQueryError("filter[path]", "filter[path] must not be empty")
			}
			f.Path = wdadomain.ParameterPath(value)
			f.HasPath = true
		default:
			return f, newQueryError("filter", "unknown filter %q", name)
		}
	}
	return f, nil
}

// filterKeyName extracts name from a "filter[name]" query key.
func filterKeyName(key string) (string, bool) {
	if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	return key[len("filter[") : len(key)-1], true
}

func parseTriState(value string) (wdadomain.TriState, error) {
	switch value {
	case "true":
		return wdadomain.TriStateTrue, nil
	case "false":
		return wdadomain.TriStateFalse, nil
	default:
		return wdadomain.TriStateUnset, fmt.Errorf("not a boolean: %q", value)
	}
}

func parseFilterDevice(value string) (wdadomain.DeviceID, error) {
	if value == "headstation" {
		return wdadomain.Headstation, nil
	}
	return wdadomain.ParseDeviceID(value)
}
