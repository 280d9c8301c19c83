package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// fetchMethodDefinitions wraps GetAllMethodDefinitions with the waitFrontend
// error-folding pattern every listing handler shares.
func fetchMethodDefinitions(ctx context.Context, op *operation.Operation, filter wdadomain.ParameterFilter, offset, limit uint32) ([]frontend.MethodDefinition, uint32, error) {
	page, err := waitFrontend(ctx, op.Backend.GetAllMethodDefinitions(ctx, filter, offset, limit), func(r frontend.Result[frontend.MethodDefinitionPage]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_METHOD")
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// findMethodDefinition locates the single method definition whose path is an
// exact match: the Frontend facade has no singular method lookup, only the
// batch/filtered GetAllMethodDefinitions, so the device and path are turned
// into a filter and the result scanned for an exact match the way a
// path-prefix filter can't express on its own.
func findMethodDefinition(ctx context.Context, op *operation.Operation, path wdadomain.ParameterInstancePath) (frontend.MethodDefinition, error) {
	filter := wdadomain.ParameterFilter{Device: &path.Device, Path: path.Path, HasPath: true}
	defs, _, err := fetchMethodDefinitions(ctx, op, filter, 0, ^uint32(0))
	if err != nil {
		return frontend.MethodDefinition{}, err
	}
	for _, def := range defs {
		if def.Path == path {
			return def, nil
		}
	}
	return frontend.MethodDefinition{}, notFound("UNKNOWN_METHOD")
}

// ListMethodDefinitions handles GET /method-definitions.
func ListMethodDefinitions(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	filter, ferr := parseParameterFilter(req)
	if ferr != nil {
		return frontend.Rejected[*wdadomain.Response](ferr)
	}
	page, perr := parsePagination(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	defs, total, err := fetchMethodDefinitions(ctx, op, filter, page.Offset, page.Limit)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(defs))
	for _, def := range defs {
		data = append(data, methodDefinitionResource(req.URI.Path, "method-definitions", def))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetMethodDefinition handles GET /method-definitions/{id}.
func GetMethodDefinition(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	def, err := findMethodDefinition(ctx, op, path)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	doc := document(req, methodDefinitionResource(stripLastSegment(req.URI.Path), "method-definitions", def))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}
