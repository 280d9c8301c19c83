// Package httpkit provides the URI and HTTP primitives the gateway core is
// built on: method parsing, RFC 7231 status codes, URL encode/decode, and a
// case-insensitive header map. It has no dependency on the rest of the
// gateway so it can be imported by router, operation, and jsonapi alike.
package httpkit

import "strings"

// Method is the closed set of HTTP methods the gateway core understands.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

// AllMethods lists every method the core recognizes, in a stable order used
// for building "Allow" headers and registering catch-all redirects.
var AllMethods = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions,
}

// ParseMethod parses a method name case-sensitively per RFC 7231 (methods are
// tokens and conventionally uppercase). Returns false if s is not one of the
// seven recognized methods.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions:
		return Method(s), true
	default:
		return "", false
	}
}

func (m Method) String() string { return string(m) }

// JoinMethods renders a set of methods as a comma-separated "Allow" header
// value in AllMethods order, regardless of the input order, with duplicates
// removed.
func JoinMethods(methods []Method) string {
	seen := make(map[Method]bool, len(methods))
	for _, m := range methods {
		seen[m] = true
	}
	parts := make([]string, 0, len(seen))
	for _, m := range AllMethods {
		if seen[m] {
			parts = append(parts, string(m))
		}
	}
	return strings.Join(parts, ", ")
}
