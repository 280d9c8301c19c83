package jsonapi

import (
	"encoding/json"

	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// encodedDocument is the wire shape every successful document serializes
// to.
type encodedDocument struct {
	JSONAPI  jsonAPIMember  `json:"jsonapi"`
	Meta     map[string]any `json:"meta,omitempty"`
	Data     any            `json:"data,omitempty"`
	Errors   []encodedError `json:"errors,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
	Included []any          `json:"included,omitempty"`
}

type jsonAPIMember struct {
	Version string `json:"version"`
}

type encodedResource struct {
	Type          string                      `json:"type"`
	ID            string                      `json:"id"`
	Attributes    any                         `json:"attributes,omitempty"`
	Relationships map[string]encodedRelationship `json:"relationships,omitempty"`
	Links         map[string]string           `json:"links,omitempty"`
}

type encodedRelationship struct {
	Links map[string]string `json:"links,omitempty"`
	Data  any                `json:"data"`
}

type encodedRelatedResource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EncodeResource converts a wdadomain.Resource into its wire shape. attrs is
// the already-marshalable attribute payload (a handler-specific struct);
// resources that carry no attributes (e.g. pure relationship stubs) pass
// nil.
func EncodeResource(r wdadomain.Resource, attrs any) map[string]any {
	enc := encodedResource{
		Type:       r.Type,
		ID:         r.ID,
		Attributes: attrs,
		Links:      r.Links,
	}
	if len(r.Relationships) > 0 {
		enc.Relationships = make(map[string]encodedRelationship, len(r.Relationships))
		for name, rel := range r.Relationships {
			enc.Relationships[name] = encodeRelationship(rel)
		}
	}
	return toMap(enc)
}

func encodeRelationship(rel wdadomain.Relationship) encodedRelationship {
	out := encodedRelationship{Links: rel.Links}
	switch rel.Mode {
	case wdadomain.DataModeNone:
		out.Data = nil
	case wdadomain.DataModeSingle:
		if len(rel.Data) > 0 {
			out.Data = encodeRelatedResource(rel.Data[0])
		}
	case wdadomain.DataModeMulti:
		refs := make([]encodedRelatedResource, 0, len(rel.Data))
		for _, d := range rel.Data {
			refs = append(refs, encodeRelatedResource(d))
		}
		out.Data = refs
	}
	return out
}

func encodeRelatedResource(r wdadomain.RelatedResource) encodedRelatedResource {
	return encodedRelatedResource{Type: r.Type, ID: r.ID}
}

// EncodeParameterValue converts a wdadomain.ParameterValue into its wire
// shape: {value, dataType, dataRank, stringValue?}, with stringValue
// present whenever the datatype name contains "int" or "float".
func EncodeParameterValue(v wdadomain.ParameterValue) map[string]any {
	out := map[string]any{
		"value":    v.Value,
		"dataType": v.DataType,
		"dataRank": v.DataRank,
	}
	if wdadomain.NeedsStringValue(v.DataType) {
		out["stringValue"] = v.StringValue
	}
	return out
}

type encodedError struct {
	Status string              `json:"status"`
	Title  string              `json:"title"`
	Detail string              `json:"detail,omitempty"`
	Code   string              `json:"code,omitempty"`
	Meta   *encodedErrorMeta   `json:"meta,omitempty"`
	Source *encodedErrorSource `json:"source,omitempty"`
}

type encodedErrorMeta struct {
	DomainSpecificStatusCode int `json:"domainSpecificStatusCode"`
}

type encodedErrorSource struct {
	Pointer string `json:"pointer"`
}

func encodeOneError(e *Error) encodedError {
	out := encodedError{
		Status: e.Status.String(),
		Title:  e.Title,
		Detail: e.Detail,
		Code:   e.Code,
	}
	if e.DomainStatus != 0 {
		out.Meta = &encodedErrorMeta{DomainSpecificStatusCode: e.DomainStatus}
	}
	if ptr := e.SourcePointer(); ptr != "" {
		out.Source = &encodedErrorSource{Pointer: ptr}
	}
	return out
}

// EncodeErrors builds the full error-document body for one or more Errors.
func EncodeErrors(errs ...*Error) ([]byte, error) {
	encoded := make([]encodedError, 0, len(errs))
	for _, e := range errs {
		encoded = append(encoded, encodeOneError(e))
	}
	doc := encodedDocument{
		JSONAPI: jsonAPIMember{Version: APIVersion},
		Meta:    map[string]any{"version": RestAPIVersion},
		Errors:  encoded,
	}
	return json.Marshal(doc)
}

// EncodeDocument marshals a single-resource Document to its final wire
// form.
func EncodeDocument(d Document) ([]byte, error) {
	doc := encodedDocument{
		JSONAPI:  jsonAPIMember{Version: APIVersion},
		Meta:     mergeMeta(d.Meta),
		Data:     d.Data,
		Links:    selfLinkMap(d),
		Included: d.Included,
	}
	return json.Marshal(doc)
}

// EncodeCollectionDocument marshals a CollectionDocument, including its
// computed pagination links.
func EncodeCollectionDocument(d CollectionDocument) ([]byte, error) {
	doc := encodedDocument{
		JSONAPI:  jsonAPIMember{Version: APIVersion},
		Meta:     mergeMeta(d.Meta),
		Data:     d.Data,
		Links:    d.BuildLinks(),
		Included: d.Included,
	}
	return json.Marshal(doc)
}

func mergeMeta(extra map[string]any) map[string]any {
	meta := map[string]any{"version": RestAPIVersion}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}

func selfLinkMap(d Document) map[string]string {
	return map[string]string{"self": d.SelfLink()}
}

// StatusForError projects an error (an *Error or a *MultiError) to the HTTP
// status it should produce.
func StatusForError(err error) httpkit.StatusCode {
	switch e := err.(type) {
	case *Error:
		if e.Status == 0 {
			return httpkit.StatusInternalServerError
		}
		return e.Status
	case *MultiError:
		return e.Status()
	default:
		return httpkit.StatusInternalServerError
	}
}

// toMap round-trips v through JSON to obtain a plain map[string]any. This is
// used sparingly (only for encoding a single resource to embed inside a
// "data" slice the caller controls the ordering of); the document-level
// encoders above marshal typed structs directly for efficiency.
func toMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
