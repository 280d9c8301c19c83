package wdadomain

// ParameterResource is the attribute payload of a "parameters" resource: a
// parameter's current value, or an error recorded in its place.
type ParameterResource struct {
	Path  ParameterInstancePath
	Value *ParameterValue
	Err   error
}

// HasErrorLikeMeta satisfies wdadomain.ErrorLike so a ParameterResource can
// be embedded as a Resource's Data and still report itself as error-like.
func (p ParameterResource) HasErrorLikeMeta() bool {
	return p.Err != nil
}

// MonitoringListData is the attribute payload of a "monitoring-lists"
// resource. Timeout == 0 means the list is one-time (read once, then
// discarded by the backend) rather than periodically refreshed.
type MonitoringListData struct {
	ID                 uint64
	Timeout            uint16
	IncludedParameters []ParameterResource
	ErrorsInAttrMode   bool
}

// HasErrorLikeMeta reports whether any included parameter carries an error.
func (m MonitoringListData) HasErrorLikeMeta() bool {
	for _, p := range m.IncludedParameters {
		if p.HasErrorLikeMeta() {
			return true
		}
	}
	return false
}
