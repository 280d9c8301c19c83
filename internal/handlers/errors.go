package handlers

import (
	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
)

// notFound builds a 404 *jsonapi.Error carrying a resource-specific code
// (e.g. "UNKNOWN_DEVICE"), matching scenario B's expected
// errors[0].code == "UNKNOWN_DEVICE".
func notFound(code string) *jsonapi.Error {
	err := jsonapi.HTTPError(httpkit.StatusNotFound, httpkit.StatusNotFound.ReasonPhrase())
	err.Code = code
	return err
}

// forbidden builds a 403 *jsonapi.Error carrying a resource-specific code.
func forbidden(code, detail string) *jsonapi.Error {
	err := jsonapi.HTTPErrorf(httpkit.StatusForbidden, httpkit.StatusForbidden.ReasonPhrase(), "%s", detail)
	err.Code = code
	return err
}

// badRequestPointer is a plain BadRequest for a query or path value the
// gateway itself rejected (filterquery.QueryError, a malformed path id,
// ...). The returned error carries no source pointer: pointer is not used,
// and only detail identifies the offending value.
func badRequestPointer(pointer, detail string) *jsonapi.Error {
	err := jsonapi.HTTPErrorf(httpkit.StatusBadRequest, httpkit.StatusBadRequest.ReasonPhrase(), "%s", detail)
	err.Kind = jsonapi.PointerNone
	err.Detail = detail
	err.Code = "BAD_REQUEST"
	_ = pointer // query/path values have no JSON body location, so the pointer is dropped and the reason goes in Detail instead
	return err
}

// backendFailure maps a determined, erroring frontend.Result into the
// gateway's error taxonomy: CoreStatusNotFound becomes an explicit 404 with
// notFoundCode, CoreStatusInvalidArgument becomes a 400, and anything else
// (timeout, backend unavailable, internal error) becomes an
// operation.BackendError, rendered as "Parameter service core error <n>".
func backendFailure(status frontend.CoreStatus, domainCode int, notFoundCode string) error {
	switch status {
	case frontend.CoreStatusNotFound:
		e := notFound(notFoundCode)
		e.DomainStatus = domainCode
		return e
	case frontend.CoreStatusInvalidArgument:
		e := jsonapi.HTTPError(httpkit.StatusBadRequest, httpkit.StatusBadRequest.ReasonPhrase())
		e.Code = "INVALID_ARGUMENT"
		e.DomainStatus = domainCode
		return e
	default:
		return &operation.BackendError{Code: domainCode}
	}
}
