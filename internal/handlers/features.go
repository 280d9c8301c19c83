package handlers

import (
	"context"
	"strings"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ListFeatures handles GET /features.
func ListFeatures(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	features, err := waitFrontend(ctx, op.Backend.GetFeaturesOfAllDevices(ctx), func(r frontend.Result[[]frontend.Feature]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_FEATURE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(features))
	for _, f := range features {
		device, name := splitFeatureOwner(f.Name)
		data = append(data, featureResource(req.URI.Path, device, frontend.Feature{Name: name}))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// splitFeatureOwner is a best-effort split of a feature name returned by
// GetFeaturesOfAllDevices: when the backend already qualifies the name with
// its owning device (e.g. "1-1/app"), the
// device and bare feature name are split apart; otherwise the feature is
// attributed to the headstation.
func splitFeatureOwner(name string) (wdadomain.DeviceID, string) {
	if idx := strings.IndexByte(name, '/'); idx > 0 {
		if dev, err := wdadomain.ParseDeviceID(name[:idx]); err == nil {
			return dev, name[idx+1:]
		}
	}
	return wdadomain.Headstation, name
}

// GetFeature handles GET /features/{feature_id}.
func GetFeature(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("feature_id")
	device, name, perr := parseFeatureID(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("feature_id", perr.Error()))
	}
	f, err := waitFrontend(ctx, op.Backend.GetFeatureDefinition(ctx, device, name), func(r frontend.Result[frontend.Feature]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_FEATURE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	doc := document(req, featureResource(stripLastSegment(req.URI.Path), device, f))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListIncludedFeatures handles GET /features/{feature_id}/includedfeatures:
// every other feature of the same device whose name is nested one level
// under this one ("app/sub" is included by "app").
func ListIncludedFeatures(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("feature_id")
	device, name, perr := parseFeatureID(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("feature_id", perr.Error()))
	}
	features, err := waitFrontend(ctx, op.Backend.GetFeatures(ctx, []wdadomain.DeviceID{device}), func(r frontend.Result[[]frontend.Feature]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_FEATURE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	basePath := stripLastSegment(req.URI.Path)
	data := make([]any, 0)
	prefix := name + "/"
	for _, f := range features {
		if f.Name == name || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		rest := f.Name[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		data = append(data, featureResource(basePath, device, f))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListContainedParameters handles GET
// /features/{feature_id}/containedparameters: every parameter definition
// whose path lives under this feature's own path prefix.
func ListContainedParameters(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	device, name, perr := featurePathParam(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	page, pgerr := parsePagination(req)
	if pgerr != nil {
		return frontend.Rejected[*wdadomain.Response](pgerr)
	}
	filter := wdadomain.ParameterFilter{Device: &device, Path: wdadomain.ParameterPath(name), HasPath: true}
	defs, total, err := fetchParameterDefinitions(ctx, op, filter, page.Offset, page.Limit)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	basePath := stripLastSegment(stripLastSegment(req.URI.Path)) + "/parameter-definitions"
	data := make([]any, 0, len(defs))
	for _, def := range defs {
		data = append(data, parameterDefinitionResource(basePath, def))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListContainedMethods handles GET
// /features/{feature_id}/containedmethods: every method definition whose
// path lives under this feature's own path prefix.
func ListContainedMethods(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	device, name, perr := featurePathParam(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	page, pgerr := parsePagination(req)
	if pgerr != nil {
		return frontend.Rejected[*wdadomain.Response](pgerr)
	}
	filter := wdadomain.ParameterFilter{Device: &device, Path: wdadomain.ParameterPath(name), HasPath: true}
	defs, total, err := fetchMethodDefinitions(ctx, op, filter, page.Offset, page.Limit)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	basePath := stripLastSegment(stripLastSegment(req.URI.Path)) + "/method-definitions"
	data := make([]any, 0, len(defs))
	for _, def := range defs {
		data = append(data, methodDefinitionResource(basePath, "method-definitions", def))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

func featurePathParam(req *wdadomain.Request) (wdadomain.DeviceID, string, error) {
	raw, _ := req.PathParam("feature_id")
	device, name, perr := parseFeatureID(raw)
	if perr != nil {
		return wdadomain.DeviceID{}, "", badRequestPointer("feature_id", perr.Error())
	}
	return device, name, nil
}
