package operation

import (
	"log/slog"

	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// BackendError wraps a raw error surfaced by the backend frontend.
// Handlers that call the backend and get back a core-status failure
// construct one of these with the backend's numeric code; ErrorResponse
// renders it as "Parameter service core error <n>".
type BackendError struct {
	Code int
}

func (e *BackendError) Error() string { return "backend error" }

// ErrorResponse projects any error a handler's Future can fail with into
// an HTTP response:
//   - *jsonapi.MultiError  -> aggregate status, one errors[] entry per DataError.
//   - *jsonapi.Error       -> single-error body, status from the error (or 500 if unset).
//   - *BackendError        -> 500, "Parameter service core error <n>".
//   - anything else        -> 500, generic internal-error title.
//
// If serializing the error body itself fails, the response falls back to a
// bare status line with no body.
func ErrorResponse(err error) *wdadomain.Response {
	var body []byte
	var status httpkit.StatusCode
	var marshalErr error

	switch e := err.(type) {
	case *jsonapi.MultiError:
		status = e.Status()
		body, marshalErr = jsonapi.EncodeErrors(e.Errors...)
	case *jsonapi.Error:
		status = e.Status
		if status == 0 {
			status = httpkit.StatusInternalServerError
		}
		body, marshalErr = jsonapi.EncodeErrors(e)
	case *BackendError:
		status = httpkit.StatusInternalServerError
		apiErr := jsonapi.HTTPErrorf(status, status.ReasonPhrase(), "Parameter service core error %d", e.Code)
		body, marshalErr = jsonapi.EncodeErrors(apiErr)
	default:
		status = httpkit.StatusInternalServerError
		apiErr := jsonapi.HTTPError(status, "Internal operation execution error occurred.")
		body, marshalErr = jsonapi.EncodeErrors(apiErr)
	}

	resp := &wdadomain.Response{Status: status, ResponseHeaders: httpkit.NewHeader()}
	if marshalErr != nil {
		slog.Error("operation: failed to serialize error response body", "error", marshalErr)
		return resp
	}
	resp.Body = body
	resp.ResponseHeaders.Set("Content-Type", "application/vnd.api+json")
	return resp
}
