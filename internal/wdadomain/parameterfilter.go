package wdadomain

// TriState represents a `filter[x]=true|false` query flag that may also be
// absent entirely, in which case the filter does not constrain that axis.
type TriState int

const (
	TriStateUnset TriState = iota
	TriStateTrue
	TriStateFalse
)

// ParameterFilter narrows a parameter listing by the `filter[...]` query
// parameters: beta/deprecated/writeable/userSetting flags, an optional
// device restriction, and an optional path-prefix restriction.
type ParameterFilter struct {
	Beta        TriState
	Deprecated  TriState
	Writeable   TriState
	UserSetting TriState
	Device      *DeviceID
	Path        ParameterPath
	HasPath     bool
}

// Matches reports whether a parameter with the given properties satisfies
// every constraint the filter carries. Callers that don't track a given
// property simply don't construct a filter with that axis set.
func (f ParameterFilter) Matches(beta, deprecated, writeable, userSetting bool, device DeviceID, path ParameterPath) bool {
	if !matchesTriState(f.Beta, beta) {
		return false
	}
	if !matchesTriState(f.Deprecated, deprecated) {
		return false
	}
	if !matchesTriState(f.Writeable, writeable) {
		return false
	}
	if !matchesTriState(f.UserSetting, userSetting) {
		return false
	}
	if f.Device != nil && *f.Device != device {
		return false
	}
	if f.HasPath && !hasPathPrefix(path, f.Path) {
		return false
	}
	return true
}

func matchesTriState(t TriState, value bool) bool {
	switch t {
	case TriStateTrue:
		return value
	case TriStateFalse:
		return !value
	default:
		return true
	}
}

func hasPathPrefix(path, prefix ParameterPath) bool {
	p, pre := string(path), string(prefix)
	if len(p) < len(pre) {
		return false
	}
	return p[:len(pre)] == pre
}
