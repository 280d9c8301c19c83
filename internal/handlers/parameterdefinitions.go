package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// fetchParameterDefinitions wraps GetAllParameterDefinitions with the
// waitFrontend error-folding pattern every listing handler shares.
func fetchParameterDefinitions(ctx context.Context, op *operation.Operation, filter wdadomain.ParameterFilter, offset, limit uint32) ([]frontend.ParameterDefinition, uint32, error) {
	page, err := waitFrontend(ctx, op.Backend.GetAllParameterDefinitions(ctx, filter, offset, limit), func(r frontend.Result[frontend.ParameterDefinitionPage]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// ListParameterDefinitions handles GET /parameter-definitions.
func ListParameterDefinitions(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	filter, ferr := parseParameterFilter(req)
	if ferr != nil {
		return frontend.Rejected[*wdadomain.Response](ferr)
	}
	page, perr := parsePagination(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	defs, total, err := fetchParameterDefinitions(ctx, op, filter, page.Offset, page.Limit)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(defs))
	for _, def := range defs {
		data = append(data, parameterDefinitionResource(req.URI.Path, def))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetParameterDefinition handles GET /parameter-definitions/{id}.
func GetParameterDefinition(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	defs, err := waitFrontend(ctx, op.Backend.GetParameterDefinitionsByPath(ctx, []wdadomain.ParameterInstancePath{path}), func(r frontend.Result[[]frontend.ParameterDefinition]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	if len(defs) == 0 {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	doc := document(req, parameterDefinitionResource(stripLastSegment(req.URI.Path), defs[0]))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// RedirectParameterDefinitionEnum implements GET
// /parameter-definitions/{id}/enum: the target enum name depends on the
// definition's own data type, which the router's template-only Redirect
// mechanism can't look up, so this is a regular handler that resolves a
// redirect Response instead of registering a router-level Redirect.
func RedirectParameterDefinitionEnum(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	defs, err := waitFrontend(ctx, op.Backend.GetParameterDefinitionsByPath(ctx, []wdadomain.ParameterInstancePath{path}), func(r frontend.Result[[]frontend.ParameterDefinition]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	if len(defs) == 0 {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	enumName := enumNameOf(defs[0].DataType)
	if enumName == "" {
		return frontend.Rejected[*wdadomain.Response](notFound("NOT_AN_ENUM"))
	}
	location := stripLastSegment(stripLastSegment(req.URI.Path)) + "/enum-definitions/" + enumName
	status := httpkit.StatusMovedPermanently
	if req.Method != httpkit.MethodGet && req.Method != httpkit.MethodHead {
		status = httpkit.StatusTemporaryRedirect
	}
	resp := &wdadomain.Response{Status: status, ResponseHeaders: httpkit.NewHeader()}
	resp.SetHeader("Location", location)
	return frontend.Resolved(resp)
}
