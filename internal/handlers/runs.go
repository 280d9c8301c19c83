package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wago/wdx-gateway/internal/filterquery"
	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/runregistry"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// autoResultBehaviorGrace bounds how long a result-behavior=auto|any POST
// blocks before falling back to the async (registry-backed) response.
const autoResultBehaviorGrace = 3 * time.Second

// runRequestEnvelope is the wire shape of a POST /methods/{id}/runs body:
// a "runs" resource whose attributes carry the method's in-args.
type runRequestEnvelope struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			InArgs json.RawMessage `json:"inArgs"`
		} `json:"attributes"`
	} `json:"data"`
}

type runAttributes struct {
	ExecutionStatus string         `json:"executionStatus"`
	OutArgs         map[string]any `json:"outArgs,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// executionStatus projects a RunState to the wire vocabulary scenario D
// checks against ("progress", "done", "error").
func executionStatus(state wdadomain.RunState) string {
	switch state {
	case wdadomain.RunDone:
		return "done"
	case wdadomain.RunError:
		return "error"
	default:
		return "progress"
	}
}

func runResource(basePath string, run *wdadomain.MethodRunObject) map[string]any {
	attrs := runAttributes{ExecutionStatus: executionStatus(run.State)}
	if run.State == wdadomain.RunDone && len(run.Result) > 0 {
		_ = json.Unmarshal(run.Result, &attrs.OutArgs)
	}
	if run.State == wdadomain.RunError && run.Err != nil {
		attrs.Error = run.Err.Error()
	}
	r := wdadomain.Resource{
		Type:  "runs",
		ID:    run.ID,
		Links: map[string]string{"self": basePath + "/runs/" + run.ID},
	}
	return jsonapi.EncodeResource(r, attrs)
}

// runSelfLocation is the Location header value POST/async responses carry.
func runSelfLocation(basePath, runID string) string {
	return basePath + "/runs/" + runID
}

// settleRun applies a resolved backend invocation to run in place: the run
// registry guards insertion/removal/lookup atomically, but a run's own
// progress fields are mutated directly by whichever goroutine is driving
// it, the same soft discipline already accepted for MaxRunsReached.
func settleRun(run *wdadomain.MethodRunObject, result frontend.MethodInvocationResult, err error) {
	if err != nil {
		run.State = wdadomain.RunError
		run.Err = err
		return
	}
	plain := make(map[string]any, len(result.OutArgs))
	for name, v := range result.OutArgs {
		plain[name] = v.Value
	}
	body, encErr := json.Marshal(plain)
	if encErr != nil {
		run.State = wdadomain.RunError
		run.Err = encErr
		return
	}
	run.State = wdadomain.RunDone
	run.Result = body
}

// InvokeMethod handles POST /methods/{id}/runs.
func InvokeMethod(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}

	var envelope runRequestEnvelope
	if err := json.Unmarshal(req.Body, &envelope); err != nil {
		return frontend.Rejected[*wdadomain.Response](jsonapi.HTTPErrorf(httpkit.StatusBadRequest, httpkit.StatusBadRequest.ReasonPhrase(), "malformed run request: %v", err))
	}
	inArgs, decErr := jsonapi.DecodeMethodInvocationInArgs(envelope.Data.Attributes.InArgs)
	if decErr != nil {
		return frontend.Rejected[*wdadomain.Response](decErr)
	}

	behaviorRaw, present := req.URI.Query().Get("result-behavior")
	behavior, berr := filterquery.ParseResultBehavior(behaviorRaw, present)
	if berr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer(berr.Pointer, berr.Message))
	}

	basePath := stripLastSegment(req.URI.Path)
	timeoutSeconds := clampRunTimeout(op.RunResultTimeoutSeconds(ctx))

	// The soft run-registry cap is enforced before accepting a POST-run at
	// all, regardless of result-behavior: a sync request that will settle
	// immediately still occupies a run slot for as long as its timeout span
	// keeps it stored (see below).
	if op.Runs.MaxRunsReached() {
		return frontend.Rejected[*wdadomain.Response](jsonapi.HTTPError(httpkit.StatusInternalServerError, httpkit.StatusInternalServerError.ReasonPhrase()))
	}

	invocation := op.Backend.InvokeMethodByPath(ctx, path, inArgs)
	run := &wdadomain.MethodRunObject{
		ID:          uuid.NewString(),
		MethodPath:  path,
		TimeoutSpan: timeoutSeconds,
		Deadline:    time.Now().Add(time.Duration(timeoutSeconds) * time.Second),
		State:       wdadomain.RunInProgress,
	}
	// timeoutSeconds == 0 disables storage entirely (sync only); every other
	// run is registered regardless of result-behavior, so a subsequent
	// GET/DELETE against its Location resolves even when the sync or
	// auto/any branch below settled it before the response was written.
	if timeoutSeconds != 0 {
		op.Runs.Add(run)
	}

	if timeoutSeconds == 0 || behavior == wdadomain.ResultBehaviorSync {
		return invokeSync(ctx, invocation, basePath, run)
	}

	if behavior == wdadomain.ResultBehaviorAsync {
		go driveRun(run, invocation)
		return resolvedRun(run, basePath, httpkit.StatusCreated)
	}

	// auto/any: wait up to the grace window, then fall back to async.
	graceCtx, cancel := context.WithTimeout(ctx, autoResultBehaviorGrace)
	defer cancel()
	result, err := invocation.Wait(graceCtx)
	if err == nil {
		settleRun(run, extractResult(result), resultError(result))
		return resolvedRun(run, basePath, httpkit.StatusCreated)
	}
	go driveRun(run, invocation)
	return resolvedRun(run, basePath, httpkit.StatusCreated)
}

func invokeSync(ctx context.Context, invocation *frontend.Future[frontend.Result[frontend.MethodInvocationResult]], basePath string, run *wdadomain.MethodRunObject) *frontend.Future[*wdadomain.Response] {
	result, err := invocation.Wait(ctx)
	settleRun(run, extractResult(result), firstErr(err, resultError(result)))
	return resolvedRun(run, basePath, httpkit.StatusCreated)
}

func driveRun(run *wdadomain.MethodRunObject, invocation *frontend.Future[frontend.Result[frontend.MethodInvocationResult]]) {
	ctx, cancel := context.WithDeadline(context.Background(), run.Deadline)
	defer cancel()
	result, err := invocation.Wait(ctx)
	if run.State == wdadomain.RunRemoved {
		return
	}
	settleRun(run, extractResult(result), firstErr(err, resultError(result)))
}

func extractResult(result frontend.Result[frontend.MethodInvocationResult]) frontend.MethodInvocationResult {
	return result.Payload
}

func resultError(result frontend.Result[frontend.MethodInvocationResult]) error {
	if result.HasError() {
		return backendFailure(result.Status, result.DomainStatusCode, "UNKNOWN_METHOD")
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func resolvedRun(run *wdadomain.MethodRunObject, basePath string, status httpkit.StatusCode) *frontend.Future[*wdadomain.Response] {
	body := runResource(basePath, run)
	doc := jsonapi.Document{BasePath: basePath, Data: body}
	serialized, err := (&jsonapi.Serializer{}).Serialize(doc)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	resp := &wdadomain.Response{Status: status, ResponseHeaders: httpkit.NewHeader(), Body: serialized}
	resp.SetHeader("Content-Type", jsonapi.MediaType)
	resp.SetHeader("Location", runSelfLocation(basePath, run.ID))
	return frontend.Resolved(resp)
}

// clampRunTimeout clamps an arbitrary signed settings-store reading into the
// wire u16 span MethodRunObject.TimeoutSpan carries.
func clampRunTimeout(seconds int) uint16 {
	if seconds < 0 {
		return 0
	}
	if seconds > 65535 {
		return 65535
	}
	return uint16(seconds)
}

// ListRuns handles GET /methods/{id}/runs.
func ListRuns(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	raw, _ := req.PathParam("id")
	path, perr := wdadomain.ParseParameterInstancePath(raw)
	if perr != nil {
		return frontend.Rejected[*wdadomain.Response](badRequestPointer("id", perr.Error()))
	}
	page, pgerr := parsePagination(req)
	if pgerr != nil {
		return frontend.Rejected[*wdadomain.Response](pgerr)
	}
	now := time.Now()
	var matching []*wdadomain.MethodRunObject
	for _, run := range op.Runs.List() {
		if run.MethodPath == path && !run.Expired(now) && run.State != wdadomain.RunRemoved {
			matching = append(matching, run)
		}
	}
	total := uint32(len(matching))
	paged := pageSlice(matching, page.Limit, page.Offset)
	basePath := stripLastSegment(req.URI.Path)
	data := make([]any, 0, len(paged))
	for _, run := range paged {
		data = append(data, runResource(basePath, run))
	}
	doc := collectionDocument(req, data, page.Limit, page.Offset, total)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetRun handles GET /methods/{id}/runs/{run_id}.
func GetRun(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	runID, _ := req.PathParam("run_id")
	run, lookup := op.Runs.GetLive(runID, time.Now())
	switch lookup {
	case runregistry.LookupNotFound:
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_RUN"))
	case runregistry.LookupExpired:
		gone := jsonapi.HTTPError(httpkit.StatusGone, httpkit.StatusGone.ReasonPhrase())
		gone.Code = "RUN_EXPIRED"
		return frontend.Rejected[*wdadomain.Response](gone)
	}
	doc := document(req, runResource(stripLastSegment(stripLastSegment(req.URI.Path)), run))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// DeleteRun handles DELETE /methods/{id}/runs/{run_id}.
func DeleteRun(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	runID, _ := req.PathParam("run_id")
	_, lookup := op.Runs.GetLive(runID, time.Now())
	switch lookup {
	case runregistry.LookupNotFound:
		return frontend.Rejected[*wdadomain.Response](notFound("UNKNOWN_RUN"))
	case runregistry.LookupExpired:
		gone := jsonapi.HTTPError(httpkit.StatusGone, httpkit.StatusGone.ReasonPhrase())
		gone.Code = "RUN_EXPIRED"
		return frontend.Rejected[*wdadomain.Response](gone)
	}
	op.Runs.Remove(runID)
	resp := &wdadomain.Response{Status: httpkit.StatusNoContent, ResponseHeaders: httpkit.NewHeader()}
	return frontend.Resolved(resp)
}
