package handlers

import (
	"context"
	"strconv"

	"github.com/wago/wdx-gateway/internal/filterquery"
	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

type monitoringListAttributes struct {
	Timeout uint16 `json:"timeout"`
}

func monitoringListResource(basePath string, m wdadomain.MonitoringListData) map[string]any {
	id := strconv.FormatUint(m.ID, 10)
	r := wdadomain.Resource{
		Type: "monitoring-lists",
		ID:   id,
		Data: m,
		Links: map[string]string{
			"self": basePath + "/" + id,
		},
		Relationships: map[string]wdadomain.Relationship{
			"parameters": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/" + id + "/parameters",
			}),
		},
	}
	return jsonapi.EncodeResource(r, monitoringListAttributes{Timeout: m.Timeout})
}

// includedParameters renders m's own parameter snapshot as the "included"
// array of a GET /monitoring-lists/{id}?include=parameters response.
func includedParameters(basePath string, m wdadomain.MonitoringListData) []any {
	paramBasePath := parametersBasePath(basePath)
	included := make([]any, 0, len(m.IncludedParameters))
	for _, p := range m.IncludedParameters {
		included = append(included, parameterResource(paramBasePath, p))
	}
	return included
}

// ListMonitoringLists handles GET /monitoring-lists.
func ListMonitoringLists(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	lists, err := waitFrontend(ctx, op.Backend.GetAllMonitoringLists(ctx), func(r frontend.Result[[]wdadomain.MonitoringListData]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_MONITORING_LIST")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(lists))
	for _, m := range lists {
		data = append(data, monitoringListResource(req.URI.Path, m))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// CreateMonitoringList handles POST /monitoring-lists.
func CreateMonitoringList(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	create, decErr := jsonapi.DecodeCreateMonitoringListRequest(req.Body)
	if decErr != nil {
		return frontend.Rejected[*wdadomain.Response](decErr)
	}
	m, err := waitFrontend(ctx, op.Backend.CreateMonitoringListWithPaths(ctx, create.Parameters, create.Timeout), func(r frontend.Result[wdadomain.MonitoringListData]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_PARAMETER")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	id := strconv.FormatUint(m.ID, 10)
	doc := document(req, monitoringListResource(req.URI.Path, m))
	resp, serr := serialize(req, httpkit.StatusCreated, doc)
	if serr != nil {
		return frontend.Rejected[*wdadomain.Response](serr)
	}
	resp.SetHeader("Location", req.URI.Path+"/"+id)
	return frontend.Resolved(resp)
}

// GetMonitoringList handles GET /monitoring-lists/{id}, optionally embedding
// its parameters when `include=parameters` is present.
func GetMonitoringList(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	id, perr := parseMonitoringListID(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	includeRaw, _ := req.URI.Query().Get("include")
	includeParameters := filterquery.Includes(filterquery.ParseInclude(includeRaw), "parameters")

	m, err := waitFrontend(ctx, op.Backend.GetMonitoringList(ctx, id), func(r frontend.Result[wdadomain.MonitoringListData]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_MONITORING_LIST")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	basePath := stripLastSegment(req.URI.Path)
	doc := document(req, monitoringListResource(basePath, m))
	if includeParameters {
		doc.Included = includedParameters(basePath, m)
	}
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// DeleteMonitoringList handles DELETE /monitoring-lists/{id}.
func DeleteMonitoringList(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	id, perr := parseMonitoringListID(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	_, err := waitFrontend(ctx, op.Backend.DeleteMonitoringList(ctx, id), func(r frontend.Result[struct{}]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_MONITORING_LIST")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	resp := &wdadomain.Response{Status: httpkit.StatusNoContent, ResponseHeaders: httpkit.NewHeader()}
	return frontend.Resolved(resp)
}

// ListMonitoringListParameters handles GET /monitoring-lists/{id}/parameters.
func ListMonitoringListParameters(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	id, perr := parseMonitoringListID(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	results, err := waitFrontend(ctx, op.Backend.GetValuesForMonitoringList(ctx, id), func(r frontend.Result[[]wdadomain.ParameterResource]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_MONITORING_LIST")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	basePath := parametersBasePath(req.URI.Path)
	data := make([]any, 0, len(results))
	for _, p := range results {
		data = append(data, parameterResource(basePath, p))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// parametersBasePath returns the top-level "/parameters" collection path
// sibling to path's own service base, mirroring featuresBasePath's
// derivation for resources (like a monitoring list's included parameters)
// that always link relative to "/parameters" regardless of which nested
// route produced them.
func parametersBasePath(path string) string {
	if idx := indexOfSegment(path, "monitoring-lists"); idx >= 0 {
		return path[:idx] + "parameters"
	}
	return path
}

func parseMonitoringListID(req *wdadomain.Request) (uint64, error) {
	raw, _ := req.PathParam("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequestPointer("id", "monitoring list id must be a non-negative integer")
	}
	return id, nil
}
