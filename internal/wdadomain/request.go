package wdadomain

import "github.com/wago/wdx-gateway/internal/httpkit"

// Request is the core-view representation of an inbound HTTP request: the
// pieces a handler needs regardless of which transport adapter produced it.
// Path parameters are filled in by the router once a route has matched;
// Serializer/Deserializer are chosen by content negotiation before the
// handler runs.
type Request struct {
	Method  httpkit.Method
	URI     httpkit.URI
	Headers httpkit.Header
	Body    []byte

	IsHTTPS     bool
	IsLocalhost bool

	PathParams map[string]string

	Serializer   ContentSerializer
	Deserializer ContentDeserializer
}

// PathParam returns the named path parameter and whether it was present.
func (r Request) PathParam(name string) (string, bool) {
	v, ok := r.PathParams[name]
	return v, ok
}

// ContentSerializer encodes a document value (as built by internal/jsonapi)
// into bytes for a negotiated content type. It is an interface here so that
// wdadomain never imports internal/jsonapi — the dependency runs the other
// way.
type ContentSerializer interface {
	ContentType() string
	Serialize(doc any) ([]byte, error)
}

// ContentDeserializer decodes a request body into one of the gateway's
// strict request shapes (MethodInvocationInArgs, CreateMonitoringListRequest,
// ValuePathRequest, ...).
type ContentDeserializer interface {
	Deserialize(body []byte, out any) error
}

// Response is the core-view representation of an outbound HTTP response.
// ResponseHeaders accumulates headers as the pipeline runs; Responded
// becomes true exactly once a body has actually been written, guarding
// against the deferred-write handlers double-writing.
type Response struct {
	Status          httpkit.StatusCode
	ResponseHeaders httpkit.Header
	Body            []byte
	Responded       bool
}

// SetHeader sets a response header, matching case-insensitively on key.
func (r *Response) SetHeader(key, value string) {
	r.ResponseHeaders.Set(key, value)
}
