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

// subdeviceFeatureNames maps a feature name that marks a device as hosting a
// subdevice collection to the collection name GetSubdevicesByCollectionName
// expects. Whether "APITest" is a long-term collection marker or a
// temporary test shim is undocumented upstream; it is kept here as data,
// not control flow, so the answer can change without touching any call
// site.
var subdeviceFeatureNames = map[string]string{
	"LocalbusMasterKBus": "LocalbusMasterKBus",
	"APITest":            "APITest",
}

// classInstanceAttributes is the attribute payload of a
// "/parameters/{id}/instances/{no}" resource: one element of an
// array-valued parameter's current value, addressed by its position.
type classInstanceAttributes struct {
	Number int `json:"number"`
	Value  any `json:"value"`
}

// classInstances extracts the slice of elements exposed from an
// array-valued parameter's current value (DataRank > 0): the backend
// frontend carries no dedicated class-instance accessor, so instances are
// read off the parameter's own value array, indexed by position — treating
// "class instantiation" as equivalent to an array-shaped parameter.
func classInstances(p wdadomain.ParameterResource) ([]any, bool) {
	if p.Err != nil || p.Value == nil || p.Value.DataRank == 0 {
		return nil, false
	}
	items, ok := p.Value.Value.([]any)
	if !ok {
		return nil, false
	}
	return items, true
}

// ListClassInstances handles GET /parameters/{id}/instances.
func ListClassInstances(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
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
	items, _ := classInstances(results[0])
	data := make([]any, 0, len(items))
	for i, v := range items {
		data = append(data, classInstanceResource(req.URI.Path, i, v))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetClassInstance handles GET /parameters/{id}/instances/{no}.
func GetClassInstance(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	noRaw, _ := req.PathParam("no")
	no, nerr := strconv.Atoi(noRaw)
	if nerr != nil || no < 0 {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("no", "instance number must be a non-negative integer"))
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
	items, _ := classInstances(results[0])
	if no >= len(items) {
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_INSTANCE"))
	}
	doc := document(req, classInstanceResource(stripLastSegment(req.URI.Path), no, items[no]))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

func classInstanceResource(basePath string, number int, value any) map[string]any {
	id := strconv.Itoa(number)
	r := wdadomain.Resource{
		Type:  "class-instances",
		ID:    id,
		Links: map[string]string{"self": basePath + "/" + id},
	}
	return jsonapi.EncodeResource(r, classInstanceAttributes{Number: number, Value: value})
}
