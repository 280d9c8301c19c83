package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ListDevices handles GET /devices: a full device scan. Scanning every
// device on the bus is sensitive enough that it stays gated behind
// "allow_unauthenticated_requests_for_scan_devices" even when nothing else
// in this core models request authentication: the setting only relaxes the
// gate for requests that are themselves already low-risk, i.e. issued from
// localhost or over HTTPS. A request satisfying neither is rejected
// regardless of the setting.
func ListDevices(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	if !op.UnauthenticatedScanDevicesAllowed(ctx) || !(req.IsLocalhost || req.IsHTTPS) {
		return frontend.Rejected[*wdadomain.Response](forbidden("SCAN_DEVICES_FORBIDDEN", "device scan requires localhost or HTTPS access"))
	}
	page, perr := parsePagination(req)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](perr)
	}
	devices, err := waitFrontend(ctx, op.Backend.GetAllDevices(ctx), func(r frontend.Result[[]frontend.Device]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_DEVICE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	total := uint32(len(devices))
	paged := pageSlice(devices, page.Limit, page.Offset)
	data := make([]any, 0, len(paged))
	for _, d := range paged {
		data = append(data, deviceResource(req.URI.Path, d))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// pageSlice applies page[limit]/page[offset] to a backend-returned slice the
// way jsonapi.ApplyPaging does, for backend calls (like GetAllDevices) that
// have no native pagination support and return everything up front.
func pageSlice[T any](items []T, limit, offset uint32) []T {
	n := uint64(len(items))
	start := uint64(offset)
	if start > n {
		start = n
	}
	end := start + uint64(limit)
	if end > n {
		end = n
	}
	return items[start:end]
}

// GetDevice handles GET /devices/{device_id}.
func GetDevice(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("device_id")
	id, perr := wdadomain.ParseDeviceID(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("device_id", perr.Error()))
	}
	d, err := waitFrontend(ctx, op.Backend.GetDevice(ctx, id), func(r frontend.Result[frontend.Device]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_DEVICE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	doc := document(req, deviceResource(stripLastSegment(req.URI.Path), d))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListSubdeviceCollections handles GET /devices/{device_id}/subdevices: the
// set of collection names this device's own feature set identifies as
// subdevice-bearing, per the subdeviceFeatureNames lookup in classinstances.go.
func ListSubdeviceCollections(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("device_id")
	id, perr := wdadomain.ParseDeviceID(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("device_id", perr.Error()))
	}
	features, err := waitFrontend(ctx, op.Backend.GetFeatures(ctx, []wdadomain.DeviceID{id}), func(r frontend.Result[[]frontend.Feature]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_DEVICE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	var names []any
	for _, f := range features {
		if collection, ok := subdeviceFeatureNames[f.Name]; ok {
			names = append(names, collection)
		}
	}
	doc := document(req, names)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListSubdevices handles GET /devices/{device_id}/subdevices/{name}: the
// devices belonging to the named subdevice collection.
func ListSubdevices(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	name, _ := req.PathParam("name")
	devices, err := waitFrontend(ctx, op.Backend.GetSubdevicesByCollectionName(ctx, name), func(r frontend.Result[[]frontend.Device]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_SUBDEVICE_COLLECTION")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(devices))
	basePath := stripLastSegment(req.URI.Path)
	for _, d := range devices {
		data = append(data, deviceResource(basePath, d))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// ListDeviceFeatures handles GET /devices/{device_id}/features.
func ListDeviceFeatures(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("device_id")
	id, perr := wdadomain.ParseDeviceID(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("device_id", perr.Error()))
	}
	features, err := waitFrontend(ctx, op.Backend.GetFeatures(ctx, []wdadomain.DeviceID{id}), func(r frontend.Result[[]frontend.Feature]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_DEVICE")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(features))
	for _, f := range features {
		data = append(data, featureResource(featuresBasePath(req), id, f))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// stripLastSegment removes the final "/segment" of a path, used to derive a
// resource's own base path from a request path one level deeper (e.g.
// "/wda/devices/1-1" -> "/wda/devices").
func stripLastSegment(path string) string {
	idx := lastSlash(path)
	if idx < 0 {
		return path
	}
	return path[:idx]
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// featuresBasePath returns the top-level "/features" collection path
// sibling to req's own service base, since feature resources always link
// relative to "/features" regardless of which nested route produced them.
func featuresBasePath(req *wdadomain.Request) string {
	path := req.URI.Path
	if idx := indexOfSegment(path, "devices"); idx >= 0 {
		return path[:idx] + "features"
	}
	return path
}

func indexOfSegment(path, segment string) int {
	target := "/" + segment + "/"
	for i := 0; i+len(target) <= len(path); i++ {
		if path[i:i+len(target)] == target {
			return i + 1
		}
	}
	return -1
}
