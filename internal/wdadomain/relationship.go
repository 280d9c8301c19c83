package wdadomain

// RelatedResource is a bare (type, id) reference, the shape JSON:API uses
// inside a relationship's "data" member and inside "included" linkage.
type RelatedResource struct {
	Type string
	ID   string
}

// DataMode selects how a Relationship's Data should be interpreted: absent,
// a single related resource, or a list of them. Exactly one mode applies to
// any given Relationship, and Data is empty iff Mode is DataModeNone.
type DataMode int

const (
	DataModeNone DataMode = iota
	DataModeSingle
	DataModeMulti
)

func (m DataMode) String() string {
	switch m {
	case DataModeNone:
		return "none"
	case DataModeSingle:
		return "single"
	case DataModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Relationship is a named link to one or more related resources, as it
// appears under a Resource's "relationships" member.
type Relationship struct {
	Links map[string]string
	Mode  DataMode
	Data  []RelatedResource
}

// SingleRelationship builds a Relationship in DataModeSingle.
func SingleRelationship(links map[string]string, ref RelatedResource) Relationship {
	return Relationship{Links: links, Mode: DataModeSingle, Data: []RelatedResource{ref}}
}

// MultiRelationship builds a Relationship in DataModeMulti.
func MultiRelationship(links map[string]string, refs []RelatedResource) Relationship {
	return Relationship{Links: links, Mode: DataModeMulti, Data: refs}
}

// EmptyRelationship builds a Relationship in DataModeNone.
func EmptyRelationship(links map[string]string) Relationship {
	return Relationship{Links: links, Mode: DataModeNone}
}
