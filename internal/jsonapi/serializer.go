package jsonapi

import (
	"encoding/json"
	"fmt"
)

// MediaType is the single media type the gateway accepts and produces.
const MediaType = "application/vnd.api+json"

// Serializer implements wdadomain.ContentSerializer and
// wdadomain.ContentDeserializer for the single supported JSON:API media
// type. Handlers pass it a Document, CollectionDocument, or a pre-encoded
// []*Error slice; Serialize dispatches to the matching Encode* function.
type Serializer struct{}

func (Serializer) ContentType() string { return MediaType }

// Serialize encodes doc, which must be a Document, CollectionDocument, or
// []*Error, to its final JSON:API wire form.
func (Serializer) Serialize(doc any) ([]byte, error) {
	switch d := doc.(type) {
	case Document:
		return EncodeDocument(d)
	case CollectionDocument:
		return EncodeCollectionDocument(d)
	case []*Error:
		return EncodeErrors(d...)
	default:
		return nil, fmt.Errorf("jsonapi: cannot serialize %T", doc)
	}
}

// Deserialize unmarshals body into out. Handlers that need the gateway's
// strict per-shape validation (CreateMonitoringListRequest,
// MethodInvocationInArgs, ValuePathRequest, ...) call the Decode* functions
// in decode.go directly instead of going through this generic path.
func (Serializer) Deserialize(body []byte, out any) error {
	return json.Unmarshal(body, out)
}
