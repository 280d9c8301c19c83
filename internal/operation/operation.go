package operation

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/runregistry"
	"github.com/wago/wdx-gateway/internal/settingsstore"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ServiceIdentity is the static self-description the /  (service identity)
// endpoint and every operation carry a reference to.
type ServiceIdentity struct {
	Name       string
	Version    string
	ServiceBase string
}

// Operation is the per-request context a matched route's handler runs
// with: the service identity, an authorized view of the backend, the
// methods allowed on the matched route (for CORS), and the shared run
// registry. A fresh Operation is built by the router for every request;
// it is never reused across requests.
type Operation struct {
	Identity       ServiceIdentity
	Backend        frontend.Frontend
	AllowedMethods []httpkit.Method
	Runs           *runregistry.Registry
	Settings       settingsstore.Store

	// EnumLookups collapses concurrent GET /enum-definitions/{name} requests
	// for the same name into a single backend call, shielding slow-changing
	// metadata from repeated concurrent lookups. Shared by pointer across
	// every per-request Operation value cmd/wdxgwd constructs; nil disables
	// the collapsing.
	EnumLookups *singleflight.Group

	// DefaultRunResultTimeoutSeconds backs the "run_result_timeout" setting
	// when the settings store has no override recorded.
	DefaultRunResultTimeoutSeconds int
	// AllowUnauthenticatedScanDevices backs
	// "allow_unauthenticated_requests_for_scan_devices" the same way.
	AllowUnauthenticatedScanDevices bool

	deferred func()
}

// RunResultTimeoutSeconds resolves the effective method-run timeout: the
// settings store's override if one is recorded, else
// DefaultRunResultTimeoutSeconds.
func (op *Operation) RunResultTimeoutSeconds(ctx context.Context) int {
	if op.Settings == nil {
		return op.DefaultRunResultTimeoutSeconds
	}
	raw, ok, err := op.Settings.GetSetting(ctx, settingsstore.KeyRunResultTimeout)
	if err != nil || !ok {
		return op.DefaultRunResultTimeoutSeconds
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return op.DefaultRunResultTimeoutSeconds
	}
	return n
}

// UnauthenticatedScanDevicesAllowed resolves the effective
// "allow_unauthenticated_requests_for_scan_devices" flag the same way.
func (op *Operation) UnauthenticatedScanDevicesAllowed(ctx context.Context) bool {
	if op.Settings == nil {
		return op.AllowUnauthenticatedScanDevices
	}
	raw, ok, err := op.Settings.GetSetting(ctx, settingsstore.KeyAllowUnauthenticatedScanDevices)
	if err != nil || !ok {
		return op.AllowUnauthenticatedScanDevices
	}
	return raw == "true"
}

// SetDeferredHandler records f to run exactly once, after the response has
// been written and flushed, regardless of whether the handler succeeded or
// failed. f must not access the original request. Calling
// SetDeferredHandler more than once overwrites the previous deferred
// handler; handlers that need to run multiple follow-ups should compose
// them into one closure.
func (op *Operation) SetDeferredHandler(f func()) {
	op.deferred = f
}

// Handler is the signature every routed endpoint implements: given the
// operation context and the inbound request, it returns a Future of the
// response to write (or fails it with an error that Handle projects into
// an error response).
type Handler func(ctx context.Context, op *Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response]

// Handle runs the full per-request pipeline:
//  1. Apply CORS headers to the eventual response.
//  2. Invoke handler, obtaining a Future.
//  3. Await it; on success, write+flush the response.
//  4. On failure, project the error to an error response and write that.
//  5. Either way, run the deferred handler exactly once.
//
// write is supplied by the transport adapter (internal/transport) and performs the
// actual flush to the network connection.
func (op *Operation) Handle(ctx context.Context, handler Handler, req *wdadomain.Request, write func(*wdadomain.Response)) {
	future := handler(ctx, op, req)
	resp, err := future.Wait(ctx)

	if err != nil {
		resp = ErrorResponse(err)
	}
	ApplyCORSHeaders(&resp.ResponseHeaders, op.AllowedMethods)
	resp.Responded = true
	write(resp)

	if op.deferred != nil {
		deferred := op.deferred
		op.deferred = nil
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "operation: deferred handler panicked", "panic", r)
			}
		}()
		deferred()
	}
}

// HandleImmediate runs the pipeline for a response the router already
// produced (a redirect, 404, 405, 406, 415, or OPTIONS reply) instead of a
// routed handler's Future, so these cases still get CORS headers and the
// same write+flush path as a normal handler.
func (op *Operation) HandleImmediate(ctx context.Context, resp *wdadomain.Response, allowedMethods []httpkit.Method, write func(*wdadomain.Response)) {
	op.AllowedMethods = allowedMethods
	op.Handle(ctx, func(context.Context, *Operation, *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
		return frontend.Resolved(resp)
	}, nil, write)
}

// HeadWrapper adapts a GET handler into one suitable for a HEAD request:
// it waits for the GET handler's response and resolves a copy with the
// body stripped, keeping status and headers intact.
func HeadWrapper(get Handler) Handler {
	return func(ctx context.Context, op *Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
		inner := get(ctx, op, req)
		future, resolver := frontend.NewFuture[*wdadomain.Response]()
		go func() {
			resp, err := inner.Wait(ctx)
			if err != nil {
				resolver.Reject(err)
				return
			}
			stripped := *resp
			stripped.Body = nil
			resolver.Resolve(&stripped)
		}()
		return future
	}
}
