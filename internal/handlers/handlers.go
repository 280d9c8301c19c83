// Package handlers wires the gateway's concrete HTTP surface against
// internal/router and internal/operation: one file
// per resource family (devices, features, parameters, methods, method
// runs, monitoring lists, enum definitions, class instances), plus
// Register, which mounts every route on a *router.Router.
//
// Handlers never talk to net/http directly — they operate purely on
// wdadomain.Request/Response and frontend.Frontend, the way
// internal/operation's Handler type requires, so the same handler set
// serves any transport adapter cmd/wdxgwd chooses to front it with.
package handlers

import (
	"context"
	"strconv"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// resolved wraps a (*wdadomain.Response, error) pair the way nearly every
// handler in this package ends its work, as an already-settled Future:
// every backend call this package makes goes through frontend.Future
// already, and once a handler has the backend's answer in hand there is no
// further suspension point before the HTTP response is ready.
func resolved(resp *wdadomain.Response, err error) *frontend.Future[*wdadomain.Response] {
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	return frontend.Resolved(resp)
}

// serialize renders doc (a jsonapi.Document, jsonapi.CollectionDocument, or
// []*jsonapi.Error) through req's negotiated serializer and wraps it in a
// Response with Content-Type/Content-Length set, per the Response
// contract's invariant that a non-empty body always carries both.
func serialize(req *wdadomain.Request, status httpkit.StatusCode, doc any) (*wdadomain.Response, error) {
	body, err := req.Serializer.Serialize(doc)
	if err != nil {
		return nil, err
	}
	resp := &wdadomain.Response{Status: status, ResponseHeaders: httpkit.NewHeader(), Body: body}
	if len(body) > 0 {
		resp.SetHeader("Content-Type", req.Serializer.ContentType())
		resp.SetHeader("Content-Length", strconv.Itoa(len(body)))
	}
	return resp, nil
}

// document builds a jsonapi.Document rooted at req's own path and query, the
// base every single-resource handler in this package starts from.
func document(req *wdadomain.Request, data any) jsonapi.Document {
	return jsonapi.Document{BasePath: req.URI.Path, Query: req.URI.RawQuery, Data: data}
}

// collectionDocument builds a jsonapi.CollectionDocument rooted at req's own
// path and query, with the paging metadata BuildLinks needs.
func collectionDocument(req *wdadomain.Request, data any, limit, offset, total uint32) jsonapi.CollectionDocument {
	return jsonapi.CollectionDocument{
		Document:       document(req, data),
		PageLimit:      limit,
		PageOffset:     offset,
		PageElementMax: total,
	}
}

// waitFrontend awaits a frontend.Future and folds its two layers of failure
// (future rejection, and a determined-but-erroring Result) so call sites
// only handle the single combined error.
func waitFrontend[T any](ctx context.Context, future *frontend.Future[frontend.Result[T]], code func(frontend.Result[T]) error) (T, error) {
	result, err := future.Wait(ctx)
	var zero T
	if err != nil {
		return zero, err
	}
	if result.HasError() {
		return zero, code(result)
	}
	return result.Payload, nil
}

// hook lets Register substitute the operation.Handler signature without
// every handler function repeating its context/operation/request trio.
type hook = operation.Handler
