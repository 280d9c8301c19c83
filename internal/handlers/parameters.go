package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ListParameters handles GET /parameters.
func ListParameters(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	filter, ferr := parseParameterFilter(req)
	if ferr != nil {
		return frontend.Rejected[*wdadomain.Response](ferr)
	}
	page, perr := parsePagination(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	result, err := waitFrontend(ctx, op.Backend.GetAllParameters(ctx, filter, page.Offset, page.Limit), func(r frontend.Result[frontend.ParameterPage]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(result.Items))
	for _, p := range result.Items {
		data = append(data, parameterResource(req.URI.Path, p))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, result.Total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// SetParameters handles PATCH /parameters: a batch of value-path writes.
func SetParameters(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	reqs, decErr := jsonapi.DecodeValuePathRequestBatch(req.Body)
	if decErr != nil {
		return frontend.Rejected[*wdadomain.Response](decErr)
	}
	writes := make([]frontend.ValuePathWrite, 0, len(reqs))
	for _, r := range reqs {
		writes = append(writes, frontend.ValuePathWrite{Path: r.Path, Value: r.Value})
	}
	outcomes, err := waitFrontend(ctx, op.Backend.SetParameterValuesByPath(ctx, writes, true), func(r frontend.Result[[]frontend.SetParameterOutcome]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(outcomes))
	for _, o := range outcomes {
		data = append(data, setParameterOutcomeResource(req.URI.Path, o))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetParameter handles GET /parameters/{id}.
func GetParameter(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	results, err := waitFrontend(ctx, op.Backend.GetParametersByPath(ctx, []wdadomain.ParameterInstancePath{path}), func(r frontend.Result[[]wdadomain.ParameterResource]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	if len(results) == 0 {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	if results[0].Err != nil {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	doc := document(req, parameterResource(stripLastSegment(req.URI.Path), results[0]))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// SetParameter handles PATCH /parameters/{id}.
func SetParameter(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	value, decErr := jsonapi.DecodeValuePathRequest(req.Body)
	if decErr != nil {
		return frontend.Rejected[*wdadomain.Response](decErr)
	}
	if value.Path != path {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", "body id does not match path"))
	}
	write := frontend.ValuePathWrite{Path: path, Value: value.Value}
	outcomes, err := waitFrontend(ctx, op.Backend.SetParameterValuesByPath(ctx, []frontend.ValuePathWrite{write}, true), func(r frontend.Result[[]frontend.SetParameterOutcome]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	if len(outcomes) == 0 {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	doc := document(req, setParameterOutcomeResource(stripLastSegment(req.URI.Path), outcomes[0]))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

func setParameterOutcomeResource(basePath string, o frontend.SetParameterOutcome) map[string]any {
	id := o.Path.String()
	r := wdadomain.Resource{Type: "parameters", ID: id, Links: map[string]string{"self": basePath + "/" + id}}
	if o.Err != nil {
		return jsonapi.EncodeResource(r, map[string]any{"error": o.Err.Error()})
	}
	return jsonapi.EncodeResource(r, map[string]any{"success": true})
}

// ListReferencedInstances handles GET /parameters/{id}/referencedinstances.
// The Frontend facade carries no dedicated reference-resolution call; a
// parameter only reports referenced instances when its own value already
// names one (a class-instance-valued parameter pointing elsewhere), so the
// listing is derived from the parameter's own current value rather than a
// second backend round trip.
func ListReferencedInstances(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	results, err := waitFrontend(ctx, op.Backend.GetParametersByPath(ctx, []wdadomain.ParameterInstancePath{path}), func(r frontend.Result[[]wdadomain.ParameterResource]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	if len(results) == 0 || results[0].Err != nil {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_PARAMETER"))
	}
	var data []any
	if v := results[0].Value; v != nil {
		if ref, ok := v.Value.(string); ok && v.DataType == "reference" {
			if refPath, rerr := wdadomain.ParseParameterInstancePath(ref); rerr == nil {
				data = append(data, map[string]any{"type": "parameters", "id": refPath.String()})
			}
		}
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}
