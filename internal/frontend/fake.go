package frontend

import (
	"context"
	"sort"
	"sync"

	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// Fake is an in-memory Frontend used by handler tests and by wdxgwd, which
// wires it in as its only backend. Every call resolves its future
// synchronously; it exists to exercise the router/operation/handlers
// layers without a live device service.
type Fake struct {
	mu sync.Mutex

	devices    map[wdadomain.DeviceID]Device
	parameters map[wdadomain.ParameterInstancePath]wdadomain.ParameterValue
	enums      map[string]EnumDefinition

	features            map[wdadomain.DeviceID][]string
	parameterDefs       map[wdadomain.ParameterInstancePath]ParameterDefinition
	methodDefs          map[wdadomain.ParameterInstancePath]MethodDefinition
	methodInvokeResults map[wdadomain.ParameterInstancePath]MethodInvocationResult

	monitoringLists map[uint64]wdadomain.MonitoringListData
	nextListID      uint64
}

// NewFake returns an empty Fake; callers seed it via the Seed* helpers
// before wiring it into the router.
func NewFake() *Fake {
	return &Fake{
		devices:             make(map[wdadomain.DeviceID]Device),
		parameters:          make(map[wdadomain.ParameterInstancePath]wdadomain.ParameterValue),
		enums:               make(map[string]EnumDefinition),
		features:            make(map[wdadomain.DeviceID][]string),
		parameterDefs:       make(map[wdadomain.ParameterInstancePath]ParameterDefinition),
		methodDefs:          make(map[wdadomain.ParameterInstancePath]MethodDefinition),
		methodInvokeResults: make(map[wdadomain.ParameterInstancePath]MethodInvocationResult),
		monitoringLists:     make(map[uint64]wdadomain.MonitoringListData),
		nextListID:          1,
	}
}

// SeedFeature registers name as a feature of device.
func (f *Fake) SeedFeature(device wdadomain.DeviceID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.features[device] = append(f.features[device], name)
}

// SeedParameterDefinition registers a parameter's static metadata.
func (f *Fake) SeedParameterDefinition(def ParameterDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parameterDefs[def.Path] = def
}

// SeedMethodDefinition registers a method's static signature.
func (f *Fake) SeedMethodDefinition(def MethodDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methodDefs[def.Path] = def
}

// SeedMethodInvocationResult fixes the result InvokeMethodByPath returns for
// path, so handler tests can exercise both success and failure shapes.
func (f *Fake) SeedMethodInvocationResult(path wdadomain.ParameterInstancePath, result MethodInvocationResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methodInvokeResults[path] = result
}

// SeedDevice registers a device for GetDevice/GetAllDevices to return.
func (f *Fake) SeedDevice(d Device) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices[d.ID] = d
}

// SeedParameter sets a parameter's current value.
func (f *Fake) SeedParameter(path wdadomain.ParameterInstancePath, value wdadomain.ParameterValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parameters[path] = value
}

// SeedEnum registers an enum definition.
func (f *Fake) SeedEnum(e EnumDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enums[e.Name] = e
}

func (f *Fake) GetAllDevices(ctx context.Context) *Future[Result[[]Device]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Device, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return Resolved(Success(out))
}

func (f *Fake) GetDevice(ctx context.Context, id wdadomain.DeviceID) *Future[Result[Device]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok {
		return Resolved(Failure[Device](CoreStatusNotFound, 0))
	}
	return Resolved(Success(d))
}

func (f *Fake) GetSubdevicesByCollectionName(ctx context.Context, collection string) *Future[Result[[]Device]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Device
	for _, d := range f.devices {
		if d.ClassName == collection {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return Resolved(Success(out))
}

func (f *Fake) GetFeatures(ctx context.Context, devices []wdadomain.DeviceID) *Future[Result[[]Feature]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Feature
	for _, d := range devices {
		for _, name := range f.features[d] {
			out = append(out, Feature{Name: name})
		}
	}
	return Resolved(Success(out))
}

func (f *Fake) GetFeaturesOfAllDevices(ctx context.Context) *Future[Result[[]Feature]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Feature
	for _, names := range f.features {
		for _, name := range names {
			out = append(out, Feature{Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return Resolved(Success(out))
}

func (f *Fake) GetFeatureDefinition(ctx context.Context, device wdadomain.DeviceID, name string) *Future[Result[Feature]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.features[device] {
		if n == name {
			return Resolved(Success(Feature{Name: name}))
		}
	}
	return Resolved(Failure[Feature](CoreStatusNotFound, 0))
}

func (f *Fake) GetParametersByPath(ctx context.Context, paths []wdadomain.ParameterInstancePath) *Future[Result[[]wdadomain.ParameterResource]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wdadomain.ParameterResource, 0, len(paths))
	for _, p := range paths {
		v, ok := f.parameters[p]
		if !ok {
			out = append(out, wdadomain.ParameterResource{Path: p, Err: errNotFound})
			continue
		}
		vv := v
		out = append(out, wdadomain.ParameterResource{Path: p, Value: &vv})
	}
	return Resolved(Success(out))
}

func (f *Fake) GetParameterDefinitionsByPath(ctx context.Context, paths []wdadomain.ParameterInstancePath) *Future[Result[[]ParameterDefinition]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ParameterDefinition, 0, len(paths))
	for _, p := range paths {
		if def, ok := f.parameterDefs[p]; ok {
			out = append(out, def)
		}
	}
	return Resolved(Success(out))
}

func (f *Fake) GetAllParameters(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[ParameterPage]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []wdadomain.ParameterResource
	for p, v := range f.parameters {
		if !filter.Matches(false, false, true, false, p.Device, p.Path) {
			continue
		}
		vv := v
		items = append(items, wdadomain.ParameterResource{Path: p, Value: &vv})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path.String() < items[j].Path.String() })
	total := uint32(len(items))
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return Resolved(Success(ParameterPage{Items: items[start:end], Total: total}))
}

func (f *Fake) GetAllParameterDefinitions(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[ParameterDefinitionPage]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []ParameterDefinition
	for p, def := range f.parameterDefs {
		if !filter.Matches(def.Beta, def.Deprecated, def.Writeable, def.UserSetting, p.Device, p.Path) {
			continue
		}
		items = append(items, def)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path.String() < items[j].Path.String() })
	total := uint32(len(items))
	return Resolved(Success(ParameterDefinitionPage{Items: ApplyPagingSlice(items, offset, limit), Total: total}))
}

func (f *Fake) GetAllMethodDefinitions(ctx context.Context, filter wdadomain.ParameterFilter, offset, limit uint32) *Future[Result[MethodDefinitionPage]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []MethodDefinition
	for p, def := range f.methodDefs {
		if !filter.Matches(false, false, false, false, p.Device, p.Path) {
			continue
		}
		items = append(items, def)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path.String() < items[j].Path.String() })
	total := uint32(len(items))
	return Resolved(Success(MethodDefinitionPage{Items: ApplyPagingSlice(items, offset, limit), Total: total}))
}

// ApplyPagingSlice slices items to [offset, offset+limit), clamped to the
// slice's length, mirroring jsonapi.ApplyPaging without this package
// importing jsonapi (the dependency runs the other way).
func ApplyPagingSlice[T any](items []T, offset, limit uint32) []T {
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

func (f *Fake) SetParameterValuesByPath(ctx context.Context, requests []ValuePathWrite, connectionAware bool) *Future[Result[[]SetParameterOutcome]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SetParameterOutcome, 0, len(requests))
	for _, r := range requests {
		f.parameters[r.Path] = r.Value
		out = append(out, SetParameterOutcome{Path: r.Path})
	}
	return Resolved(Success(out))
}

func (f *Fake) InvokeMethodByPath(ctx context.Context, path wdadomain.ParameterInstancePath, args map[string]wdadomain.ParameterValue) *Future[Result[MethodInvocationResult]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if result, ok := f.methodInvokeResults[path]; ok {
		return Resolved(Success(result))
	}
	return Resolved(Success(MethodInvocationResult{OutArgs: map[string]wdadomain.ParameterValue{}}))
}

func (f *Fake) CreateMonitoringListWithPaths(ctx context.Context, paths []wdadomain.ParameterInstancePath, timeout uint16) *Future[Result[wdadomain.MonitoringListData]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextListID
	f.nextListID++
	included := make([]wdadomain.ParameterResource, 0, len(paths))
	for _, p := range paths {
		v := f.parameters[p]
		vv := v
		included = append(included, wdadomain.ParameterResource{Path: p, Value: &vv})
	}
	list := wdadomain.MonitoringListData{ID: id, Timeout: timeout, IncludedParameters: included}
	f.monitoringLists[id] = list
	return Resolved(Success(list))
}

func (f *Fake) GetMonitoringList(ctx context.Context, id uint64) *Future[Result[wdadomain.MonitoringListData]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.monitoringLists[id]
	if !ok {
		return Resolved(Failure[wdadomain.MonitoringListData](CoreStatusNotFound, 0))
	}
	return Resolved(Success(l))
}

func (f *Fake) GetAllMonitoringLists(ctx context.Context) *Future[Result[[]wdadomain.MonitoringListData]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wdadomain.MonitoringListData, 0, len(f.monitoringLists))
	for _, l := range f.monitoringLists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return Resolved(Success(out))
}

func (f *Fake) DeleteMonitoringList(ctx context.Context, id uint64) *Future[Result[struct{}]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.monitoringLists[id]; !ok {
		return Resolved(Failure[struct{}](CoreStatusNotFound, 0))
	}
	delete(f.monitoringLists, id)
	return Resolved(Success(struct{}{}))
}

func (f *Fake) GetValuesForMonitoringList(ctx context.Context, id uint64) *Future[Result[[]wdadomain.ParameterResource]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.monitoringLists[id]
	if !ok {
		return Resolved(Failure[[]wdadomain.ParameterResource](CoreStatusNotFound, 0))
	}
	return Resolved(Success(l.IncludedParameters))
}

func (f *Fake) GetEnumDefinition(ctx context.Context, name string) *Future[Result[EnumDefinition]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enums[name]
	if !ok {
		return Resolved(Failure[EnumDefinition](CoreStatusNotFound, 0))
	}
	return Resolved(Success(e))
}

func (f *Fake) GetAllEnumDefinitions(ctx context.Context) *Future[Result[[]EnumDefinition]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]EnumDefinition, 0, len(f.enums))
	for _, e := range f.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return Resolved(Success(out))
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (e *notFoundError) Error() string { return "parameter not found" }

var _ Frontend = (*Fake)(nil)
