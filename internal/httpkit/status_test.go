package httpkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode_String(t *testing.T) {
	assert.Equal(t, "404", StatusNotFound.String())
	assert.Equal(t, "200", StatusOK.String())
}

func TestStatusCode_IsError(t *testing.T) {
	assert.False(t, StatusOK.IsError())
	assert.False(t, StatusTemporaryRedirect.IsError())
	assert.True(t, StatusBadRequest.IsError())
	assert.True(t, StatusInternalServerError.IsError())
}

func TestStatusCode_ReasonPhrase(t *testing.T) {
	assert.Equal(t, "Not Found", StatusNotFound.ReasonPhrase())
	assert.Equal(t, "Gone", StatusGone.ReasonPhrase())
	assert.Equal(t, "Unsupported Media Type", StatusUnsupportedMediaType.ReasonPhrase())
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("GET")
	assert.True(t, ok)
	assert.Equal(t, MethodGet, m)

	_, ok = ParseMethod("get")
	assert.False(t, ok)

	_, ok = ParseMethod("TRACE")
	assert.False(t, ok)
}

func TestJoinMethods_StableOrderDedup(t *testing.T) {
	got := JoinMethods([]Method{MethodHead, MethodGet, MethodGet, MethodPost})
	assert.Equal(t, "GET, HEAD, POST", got)
}
