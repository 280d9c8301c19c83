// Package jsonapi implements the gateway's JSON:API wire format: documents,
// pagination-aware collection links, the error taxonomy and its projection
// to an HTTP response, and the strict request deserializers the gateway
// relies on.
package jsonapi

import (
	"fmt"

	"github.com/wago/wdx-gateway/internal/httpkit"
)

// PointerKind discriminates which source-pointer shape an Error carries, if
// any. Rather than a class hierarchy of exception types, the taxonomy
// collapses to one tagged sum matched by Kind, which both the
// pointer-construction code and the HTTP status projection switch over.
type PointerKind int

const (
	// PointerNone carries no source.pointer (plain HttpError/CoreError).
	PointerNone PointerKind = iota
	// PointerData carries "/data/<index>" (index < 0 omits the segment).
	PointerData
	// PointerAttribute carries "/data/<index>/attributes/<name>".
	PointerAttribute
	// PointerRelationship carries
	// "/data/<index>/relationships/<name>/data/<j>" (j < 0 omits the final
	// segment).
	PointerRelationship
)

// Error is the gateway's single error type: one flat struct plus a kind
// tag, rather than a hierarchy of exception subtypes. Every handler that
// wants to fail a request constructs one of these (usually via the
// constructor helpers below) and returns it; the operation pipeline
// (internal/operation) is the only place that projects it into an HTTP
// response.
type Error struct {
	Status  httpkit.StatusCode
	Title   string
	Detail  string
	Code    string // optional core status code, e.g. "WDX_NOT_FOUND"
	DomainStatus int // 0 means unset, per the taxonomy's invariant

	Kind PointerKind

	DataIndex        int    // valid when Kind != PointerNone; < 0 omits "/data/<i>"'s index
	AttributeName    string // valid when Kind == PointerAttribute
	RelationshipName string // valid when Kind == PointerRelationship
	RelationshipIdx  int    // valid when Kind == PointerRelationship; < 0 omits its index
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// HTTPError builds a plain passthrough error: no source pointer, status
// carried verbatim.
func HTTPError(status httpkit.StatusCode, title string) *Error {
	return &Error{Status: status, Title: title, Kind: PointerNone}
}

// HTTPErrorf is HTTPError with a formatted detail message.
func HTTPErrorf(status httpkit.StatusCode, title, format string, args ...any) *Error {
	return &Error{Status: status, Title: title, Detail: fmt.Sprintf(format, args...), Kind: PointerNone}
}

// CoreError builds an error carrying a domain status code, per the
// taxonomy's "domain_status == 0 means unset" invariant. Callers must not
// call this with a "success" coreStatus; that invariant is enforced by the
// backend adapter that translates core statuses, not by this constructor.
func CoreError(status httpkit.StatusCode, title string, domainStatus int) *Error {
	return &Error{Status: status, Title: title, DomainStatus: domainStatus, Kind: PointerNone}
}

// DataError builds an error attached to the i-th element of a request's
// "data" array (i < 0 means "the whole document").
func DataError(status httpkit.StatusCode, title string, index int) *Error {
	return &Error{Status: status, Title: title, Kind: PointerData, DataIndex: index}
}

// AttributeError builds an error attached to one named attribute of the
// i-th data element.
func AttributeError(status httpkit.StatusCode, title string, index int, attribute string) *Error {
	return &Error{Status: status, Title: title, Kind: PointerAttribute, DataIndex: index, AttributeName: attribute}
}

// RelationshipError builds an error attached to the j-th related resource
// of a named relationship on the i-th data element.
func RelationshipError(status httpkit.StatusCode, title string, index int, relationship string, relIndex int) *Error {
	return &Error{
		Status: status, Title: title, Kind: PointerRelationship,
		DataIndex: index, RelationshipName: relationship, RelationshipIdx: relIndex,
	}
}

// SourcePointer renders the JSON pointer synthesised from the error's kind,
// or "" if the error carries none:
//   - DataError(i)                     -> "/data/<i>" (or "/data" if i<0)
//   - AttributeError(name)             -> append "/attributes/<name>"
//   - RelationshipError(name, j)       -> append "/relationships/<name>/data/<j>" (or omit "/data/<j>" if j<0)
func (e *Error) SourcePointer() string {
	switch e.Kind {
	case PointerNone:
		return ""
	case PointerData:
		return dataPointer(e.DataIndex)
	case PointerAttribute:
		return dataPointer(e.DataIndex) + "/attributes/" + e.AttributeName
	case PointerRelationship:
		p := dataPointer(e.DataIndex) + "/relationships/" + e.RelationshipName
		if e.RelationshipIdx >= 0 {
			p += fmt.Sprintf("/data/%d", e.RelationshipIdx)
		}
		return p
	default:
		return ""
	}
}

func dataPointer(index int) string {
	if index < 0 {
		return "/data"
	}
	return fmt.Sprintf("/data/%d", index)
}

// MultiError aggregates one or more Errors that all occurred processing a
// single request body's "data" array.
type MultiError struct {
	Errors []*Error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	return fmt.Sprintf("%s (and %d more)", m.Errors[0].Error(), len(m.Errors)-1)
}

// Status derives the aggregate HTTP status for a MultiError: if every
// contained error shares the 4xx family, use the highest of those codes;
// otherwise fall back to 500.
func (m *MultiError) Status() httpkit.StatusCode {
	if len(m.Errors) == 0 {
		return httpkit.StatusInternalServerError
	}
	allClientError := true
	var highest httpkit.StatusCode
	for _, e := range m.Errors {
		if e.Status < 400 || e.Status >= 500 {
			allClientError = false
		}
		if e.Status > highest {
			highest = e.Status
		}
	}
	if !allClientError {
		return httpkit.StatusInternalServerError
	}
	return highest
}
