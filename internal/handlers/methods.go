package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ListMethods handles GET /methods: the same method-definition listing as
// /method-definitions, rendered under the "methods" resource type. The two
// routes share one backend call (GetAllMethodDefinitions) because the
// Frontend facade draws no distinction between a method's static definition
// and its invocable identity.
func ListMethods(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
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
		data = append(data, methodDefinitionResource(req.URI.Path, "methods", def))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetMethod handles GET /methods/{id}.
func GetMethod(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	def, err := findMethodDefinition(ctx, op, path)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	doc := document(req, methodDefinitionResource(stripLastSegment(req.URI.Path), "methods", def))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}
