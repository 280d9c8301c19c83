package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

func okHandler(body string) operation.Handler {
	return func(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
		resp := &wdadomain.Response{Status: httpkit.StatusOK, ResponseHeaders: httpkit.NewHeader(), Body: []byte(body)}
		return frontend.Resolved(resp)
	}
}

func newTestRequest(method httpkit.Method, rawURI string) *wdadomain.Request {
	return &wdadomain.Request{
		Method:  method,
		URI:     httpkit.ParseURI(rawURI),
		Headers: httpkit.NewHeader(),
	}
}

func TestRoute_Matches_CapturesPathParams(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices/:device_id:", okHandler("device"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/devices/42")
	req.Headers.Set("Accept", "application/vnd.api+json")

	match, resp, _ := rt.Route(req)
	require.Nil(t, resp)
	require.NotNil(t, match)
	assert.Equal(t, "42", match.PathParams["device_id"])
}

func TestRoute_SlashCapture(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/parameters/#path#", okHandler("param"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/parameters/a/b/c")
	match, resp, _ := rt.Route(req)
	require.Nil(t, resp)
	require.NotNil(t, match)
	assert.Equal(t, "a/b/c", match.PathParams["path"])
}

func TestRoute_NoMatch_404(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/nope")
	match, resp, allowed := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusNotFound, resp.Status)
	assert.Nil(t, allowed)
}

func TestRoute_MethodNotAllowed_405(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodPost, "/wda/devices")
	match, resp, allowed := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusMethodNotAllowed, resp.Status)
	assert.Contains(t, allowed, httpkit.MethodGet)
	assert.Contains(t, allowed, httpkit.MethodHead)
	assert.Equal(t, "GET, HEAD", resp.ResponseHeaders.Get("Allow"))
}

func TestRoute_AllowedMethodsIncludesHeadOnPostOnlyRoute(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodPost, "/methods/:id:/runs", okHandler("runs"), "")

	req := newTestRequest(httpkit.MethodOptions, "/wda/methods/0-0-m/runs")
	match, resp, allowed := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, "HEAD, POST", resp.ResponseHeaders.Get("Allow"))
	assert.ElementsMatch(t, []httpkit.Method{httpkit.MethodHead, httpkit.MethodPost}, allowed)

	req = newTestRequest(httpkit.MethodGet, "/wda/methods/0-0-m/runs")
	match, resp, allowed = rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusMethodNotAllowed, resp.Status)
	assert.Equal(t, "HEAD, POST", resp.ResponseHeaders.Get("Allow"))
	assert.Contains(t, allowed, httpkit.MethodHead)
}

func TestRoute_HeadFallsBackToGet(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodHead, "/wda/devices")
	match, resp, _ := rt.Route(req)
	require.Nil(t, resp)
	require.NotNil(t, match)

	future := match.Handler(context.Background(), &operation.Operation{}, req)
	out, err := future.Wait(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.Body)
	assert.Equal(t, httpkit.StatusOK, out.Status)
}

func TestRoute_TrailingSlashRedirect(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/devices/")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusMovedPermanently, resp.Status)
	assert.Equal(t, "/wda/devices", resp.ResponseHeaders.Get("Location"))
}

func TestRoute_UppercasePathRedirect(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/Devices?foo=bar")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusMovedPermanently, resp.Status)
	assert.Equal(t, "/wda/devices?foo=bar", resp.ResponseHeaders.Get("Location"))
}

func TestRoute_OptionsShortCircuit(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")
	rt.Handle(httpkit.MethodPost, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodOptions, "/wda/devices")
	match, resp, allowed := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusNoContent, resp.Status)
	assert.Equal(t, "GET, HEAD, POST", resp.ResponseHeaders.Get("Allow"))
	assert.ElementsMatch(t, []httpkit.Method{httpkit.MethodGet, httpkit.MethodHead, httpkit.MethodPost}, allowed)
}

func TestRoute_NotAcceptable406(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda/devices")
	req.Headers.Set("Accept", "text/html")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusNotAcceptable, resp.Status)
}

func TestRoute_UnsupportedMediaType415(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodPost, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodPost, "/wda/devices")
	req.Headers.Set("Content-Type", "text/plain")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusUnsupportedMediaType, resp.Status)
}

func TestRoute_ContentTypeWithCharsetAccepted(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodPost, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodPost, "/wda/devices")
	req.Headers.Set("Content-Type", "application/vnd.api+json; charset=utf-8")
	match, resp, _ := rt.Route(req)
	require.Nil(t, resp)
	require.NotNil(t, match)
}

func TestRedirect_MatchFollowing(t *testing.T) {
	rt := New("/wda")
	rt.Redirect("/devices/:device_id:/features/:name:", func(params map[string]string, rawQuery string) string {
		return "/wda/parameters/" + params["device_id"] + "." + params["name"]
	})

	req := newTestRequest(httpkit.MethodGet, "/wda/devices/1/features/foo")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusMovedPermanently, resp.Status)
	assert.Equal(t, "/wda/parameters/1.foo", resp.ResponseHeaders.Get("Location"))
}

func TestRoute_ServiceBaseMismatch(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "/devices", okHandler("devices"), "")

	req := newTestRequest(httpkit.MethodGet, "/other/devices")
	match, resp, _ := rt.Route(req)
	assert.Nil(t, match)
	require.NotNil(t, resp)
	assert.Equal(t, httpkit.StatusInternalServerError, resp.Status)
}

func TestRoute_RootTemplate(t *testing.T) {
	rt := New("/wda")
	rt.Handle(httpkit.MethodGet, "", okHandler("identity"), "")

	req := newTestRequest(httpkit.MethodGet, "/wda")
	match, resp, _ := rt.Route(req)
	require.Nil(t, resp)
	require.NotNil(t, match)
}
