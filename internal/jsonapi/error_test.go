package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wago/wdx-gateway/internal/httpkit"
)

func TestError_SourcePointer_Data(t *testing.T) {
	e := DataError(httpkit.StatusBadRequest, "bad", 0)
	assert.Equal(t, "/data/0", e.SourcePointer())

	e2 := DataError(httpkit.StatusBadRequest, "bad", -1)
	assert.Equal(t, "/data", e2.SourcePointer())
}

func TestError_SourcePointer_Attribute(t *testing.T) {
	e := AttributeError(httpkit.StatusBadRequest, "bad", 0, "timeout")
	assert.Equal(t, "/data/0/attributes/timeout", e.SourcePointer())
}

func TestError_SourcePointer_Relationship(t *testing.T) {
	e := RelationshipError(httpkit.StatusBadRequest, "bad", 0, "parameters", 2)
	assert.Equal(t, "/data/0/relationships/parameters/data/2", e.SourcePointer())

	e2 := RelationshipError(httpkit.StatusBadRequest, "bad", 0, "parameters", -1)
	assert.Equal(t, "/data/0/relationships/parameters", e2.SourcePointer())
}

func TestError_SourcePointer_None(t *testing.T) {
	e := HTTPError(httpkit.StatusNotFound, "not found")
	assert.Equal(t, "", e.SourcePointer())
}

func TestMultiError_Status_AllClientErrorsUsesHighest(t *testing.T) {
	m := &MultiError{Errors: []*Error{
		DataError(httpkit.StatusBadRequest, "a", 0),
		DataError(httpkit.StatusNotFound, "b", 1),
	}}
	assert.Equal(t, httpkit.StatusNotFound, m.Status())
}

func TestMultiError_Status_MixedFallsBackTo500(t *testing.T) {
	m := &MultiError{Errors: []*Error{
		DataError(httpkit.StatusBadRequest, "a", 0),
		DataError(httpkit.StatusInternalServerError, "b", 1),
	}}
	assert.Equal(t, httpkit.StatusInternalServerError, m.Status())
}
