package handlers

import (
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/router"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// Register mounts every route of the gateway's HTTP surface on r. It is the
// single place the handler package and the router package meet; cmd/wdxgwd
// only needs to build a *router.Router, call Register, and hand the result
// to the transport adapter.
func Register(r *router.Router) {
	r.Handle(httpkit.MethodGet, "/", ServiceIdentity, "")

	r.Handle(httpkit.MethodGet, "/devices", ListDevices, "")
	r.Handle(httpkit.MethodGet, "/devices/:device_id:", GetDevice, "")
	r.Handle(httpkit.MethodGet, "/devices/:device_id:/subdevices", ListSubdeviceCollections, "")
	r.Handle(httpkit.MethodGet, "/devices/:device_id:/subdevices/:name:", ListSubdevices, "")
	r.Handle(httpkit.MethodGet, "/devices/:device_id:/features", ListDeviceFeatures, "")
	// name may itself contain "/" (nested feature names like "app/sub"), so
	// it captures the rest of the path the same way #path# does elsewhere.
	r.Redirect("/devices/:device_id:/features/#name#", func(params map[string]string, rawQuery string) string {
		location := "/features/" + featureID(mustDeviceID(params["device_id"]), params["name"])
		if rawQuery != "" {
			location += "?" + rawQuery
		}
		return location
	})

	r.Handle(httpkit.MethodGet, "/features", ListFeatures, "")
	r.Handle(httpkit.MethodGet, "/features/:feature_id:", GetFeature, "")
	r.Handle(httpkit.MethodGet, "/features/:feature_id:/includedfeatures", ListIncludedFeatures, "")
	r.Handle(httpkit.MethodGet, "/features/:feature_id:/containedparameters", ListContainedParameters, "")
	r.Handle(httpkit.MethodGet, "/features/:feature_id:/containedmethods", ListContainedMethods, "")

	r.Handle(httpkit.MethodGet, "/parameters", ListParameters, "")
	r.Handle(httpkit.MethodPatch, "/parameters", SetParameters, "")
	r.Handle(httpkit.MethodGet, "/parameters/:id:", GetParameter, "")
	r.Handle(httpkit.MethodPatch, "/parameters/:id:", SetParameter, "")
	r.Handle(httpkit.MethodGet, "/parameters/:id:/referencedinstances", ListReferencedInstances, "")
	r.Handle(httpkit.MethodGet, "/parameters/:id:/instances", ListClassInstances, "")
	r.Handle(httpkit.MethodGet, "/parameters/:id:/instances/:no:", GetClassInstance, "")

	r.Handle(httpkit.MethodGet, "/parameter-definitions", ListParameterDefinitions, "")
	r.Handle(httpkit.MethodGet, "/parameter-definitions/:id:", GetParameterDefinition, "")
	r.Handle(httpkit.MethodGet, "/parameter-definitions/:id:/enum", RedirectParameterDefinitionEnum, "")

	r.Handle(httpkit.MethodGet, "/methods", ListMethods, "")
	r.Handle(httpkit.MethodGet, "/methods/:id:", GetMethod, "")
	r.Handle(httpkit.MethodPost, "/methods/:id:/runs", InvokeMethod, "")
	r.Handle(httpkit.MethodGet, "/methods/:id:/runs", ListRuns, "")
	r.Handle(httpkit.MethodGet, "/methods/:id:/runs/:run_id:", GetRun, "")
	r.Handle(httpkit.MethodDelete, "/methods/:id:/runs/:run_id:", DeleteRun, "")

	r.Handle(httpkit.MethodGet, "/method-definitions", ListMethodDefinitions, "")
	r.Handle(httpkit.MethodGet, "/method-definitions/:id:", GetMethodDefinition, "")

	r.Handle(httpkit.MethodGet, "/monitoring-lists", ListMonitoringLists, "")
	r.Handle(httpkit.MethodPost, "/monitoring-lists", CreateMonitoringList, "")
	r.Handle(httpkit.MethodGet, "/monitoring-lists/:id:", GetMonitoringList, "")
	r.Handle(httpkit.MethodDelete, "/monitoring-lists/:id:", DeleteMonitoringList, "")
	r.Handle(httpkit.MethodGet, "/monitoring-lists/:id:/parameters", ListMonitoringListParameters, "")

	r.Handle(httpkit.MethodGet, "/enum-definitions", ListEnumDefinitions, "")
	r.Handle(httpkit.MethodGet, "/enum-definitions/:name:", GetEnumDefinition, "")
}

// mustDeviceID parses a device id path capture for redirect-target
// construction. RedirectTarget has no way to report an error, so a
// malformed id (which the route's own capture pattern already constrains
// heavily) degrades to the zero DeviceID rather than panicking mid-routing.
func mustDeviceID(raw string) wdadomain.DeviceID {
	id, err := wdadomain.ParseDeviceID(raw)
	if err != nil {
		return wdadomain.DeviceID{}
	}
	return id
}
