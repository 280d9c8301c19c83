package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/handlers"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/router"
	"github.com/wago/wdx-gateway/internal/runregistry"
	"github.com/wago/wdx-gateway/internal/settingsstore"
	"github.com/wago/wdx-gateway/internal/transport"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

func testRunsGateway(t *testing.T, runs *runregistry.Registry) (*transport.Gateway, *frontend.Fake) {
	t.Helper()
	fake := frontend.NewFake()
	fake.SeedMethodInvocationResult(mustPath(t, "0-0-m"), frontend.MethodInvocationResult{})

	r := router.New("/wda")
	handlers.Register(r)

	newOp := func() *operation.Operation {
		return &operation.Operation{
			Identity:                       operation.ServiceIdentity{Name: "wdx-gateway", Version: "test", ServiceBase: "/wda"},
			Backend:                        fake,
			Runs:                           runs,
			Settings:                       settingsstore.NewMemory(),
			DefaultRunResultTimeoutSeconds: 30,
		}
	}
	return transport.New(r, newOp), fake
}

func mustPath(t *testing.T, raw string) wdadomain.ParameterInstancePath {
	t.Helper()
	p, err := wdadomain.ParseParameterInstancePath(raw)
	require.NoError(t, err)
	return p
}

// A result-behavior=sync POST-run must still register the run it settled,
// so the Location header of its 201 response resolves on a subsequent GET.
func TestInvokeMethod_SyncRunIsRegistered(t *testing.T) {
	gw, _ := testRunsGateway(t, runregistry.New(100))

	body := strings.NewReader(`{"data":{"type":"runs","attributes":{"inArgs":{}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/wda/methods/0-0-m/runs?result-behavior=sync", body)
	req.Header.Set("Content-Type", "application/vnd.api+json")
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	location := rec.Header().Get("Location")
	require.NotEmpty(t, location)

	getReq := httptest.NewRequest(http.MethodGet, location, nil)
	getRec := httptest.NewRecorder()
	gw.ServeHTTP(getRec, getReq)

	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), `"executionStatus":"done"`)
}

// The soft run-registry cap is enforced before accepting any POST-run,
// including one that will settle synchronously.
func TestInvokeMethod_MaxRunsReachedAppliesToSync(t *testing.T) {
	runs := runregistry.New(0)
	gw, _ := testRunsGateway(t, runs)

	body := strings.NewReader(`{"data":{"type":"runs","attributes":{"inArgs":{}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/wda/methods/0-0-m/runs?result-behavior=sync", body)
	req.Header.Set("Content-Type", "application/vnd.api+json")
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
