package frontend

import (
	"context"

	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// Device is the attribute payload of a "devices" resource.
type Device struct {
	ID          wdadomain.DeviceID
	Name        string
	ClassName   string
	InstanceNo  int
	Description string
	OrderNumber string
	Firmware    string
}

// Feature is the attribute payload of a "features" resource.
type Feature struct {
	Name string
}

// EnumValue is one named/numeric pair within an enum definition.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumDefinition is the attribute payload of an "enum-definitions"
// resource.
type EnumDefinition struct {
	Name   string
	Values []EnumValue
}

// ParameterDefinition describes a parameter's static metadata (as opposed
// to its current value), served from /parameter-definitions.
type ParameterDefinition struct {
	Path        wdadomain.ParameterInstancePath
	DataType    string
	DataRank    int
	Beta        bool
	Deprecated  bool
	Writeable   bool
	UserSetting bool
}

// MethodDefinition describes a method's static signature, served from
// /method-definitions.
type MethodDefinition struct {
	Path     wdadomain.ParameterInstancePath
	InArgs   []string
	OutArgs  []string
}

// SetParameterOutcome is one element of the response to a parameter-write
// request: which path was written and whether it succeeded.
type SetParameterOutcome struct {
	Path wdadomain.ParameterInstancePath
	Err  error
}

// MethodInvocationResult is the named out-arg map a method invocation
// produces once it completes.
type MethodInvocationResult struct {
	OutArgs map[string]wdadomain.ParameterValue
}

// Frontend is the narrow async facade the gateway consumes from the
// backend device/parameter service. Every call returns a Future so the
// operation pipeline can race it against a deadline instead of blocking
// the request goroutine outright.
type Frontend interface {
	GetAllDevices(ctx context.Context) *Future[Result[[]Device]]
	GetDevice(ctx context.Context, id wdadomain.DeviceID) *Future[Result[Device]]
	GetSubdevicesByCollectionName(ctx context.Context, collection string) *Future[Result[[]Device]]

	GetFeatures(ctx context.Context, devices []wdadomain.DeviceID) *Future[Result[[]Feature]]
	GetFeaturesOfAllDevices(ctx context.Context) *Future[Result[[]Feature]]
	GetFeatureDefinition(ctx context.Context, device wdadomain.DeviceID, name string) *Future[Result[Feature]]

	GetParametersByPath(ctx context.Context, paths []wdadomain.ParameterInstancePath) *Future[Result[[]wdadomain.ParameterResource]]
	GetParameterDefinitionsByPath(ctx context.Context, paths []wdadomain.ParameterInstancePath) *Future[Result[[]ParameterDefinition]]
	GetAllParameters(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[ParameterPage]]
	GetAllParameterDefinitions(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[ParameterDefinitionPage]]
	GetAllMethodDefinitions(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[MethodDefinitionPage]]

	SetParameterValuesByPath(ctx context.Context, requests []ValuePathWrite, connectionAware bool) *Future[Result[[]SetParameterOutcome]]
	InvokeMethodByPath(ctx context.Context, path wdadomain.ParameterInstancePath, args map[string]wdadomain.ParameterValue) *Future[Result[MethodInvocationResult]]

	CreateMonitoringListWithPaths(ctx context.Context, paths []wdadomain.ParameterInstancePath, timeout uint16) *Future[Result[wdadomain.MonitoringListData]]
	GetMonitoringList(ctx context.Context, id uint64) *Future[Result[wdadomain.MonitoringListData]]
	GetAllMonitoringLists(ctx context.Context) *Future[Result[[]wdadomain.MonitoringListData]]
	DeleteMonitoringList(ctx context.Context, id uint64) *Future[Result[struct{}]]
	GetValuesForMonitoringList(ctx context.Context, id uint64) *Future[Result[[]wdadomain.ParameterResource]]

	GetEnumDefinition(ctx context.Context, name string) *Future[Result[EnumDefinition]]
	GetAllEnumDefinitions(ctx context.Context) *Future[Result[[]EnumDefinition]]
}

// ParameterPage/ParameterDefinitionPage/MethodDefinitionPage carry both the
// page of items actually returned and the unpaged total, mirroring
// ParameterResponseListResponse's shape so handlers can build a
// CollectionDocument without a second backend round-trip for the count.
type ParameterPage struct {
	Items []wdadomain.ParameterResource
	Total uint32
}

type ParameterDefinitionPage struct {
	Items []ParameterDefinition
	Total uint32
}

type MethodDefinitionPage struct {
	Items []MethodDefinition
	Total uint32
}

// ValuePathWrite mirrors jsonapi.ValuePathRequest's shape without
// internal/frontend importing internal/jsonapi (which itself imports
// wdadomain, and internal/frontend must stay below jsonapi in the
// dependency order the package layout declares). Handlers convert their
// already-decoded jsonapi.ValuePathRequest values into this shape.
type ValuePathWrite struct {
	Path  wdadomain.ParameterInstancePath
	Value wdadomain.ParameterValue
}
