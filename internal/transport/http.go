// Package transport adapts the gateway's transport-agnostic core
// (internal/router, internal/operation, internal/wdadomain) to a concrete
// net/http server. The core never imports net/http; this is the one place
// that translation happens, handing a raw request to the router and writing
// its eventual response back onto the connection.
package transport

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wago/wdx-gateway/internal/gwlog"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/router"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// maxBodyBytes caps the request body net/http will read before the
// deserializers in internal/jsonapi ever see it, so a misbehaving client
// can't exhaust memory with an unbounded JSON:API body.
const maxBodyBytes = 4 << 20 // 4 MiB

// Gateway is the net/http.Handler that fronts the compiled route table. One
// Gateway is built at startup; NewOperation is called once per request to
// build the per-request Operation the pipeline requires.
type Gateway struct {
	Router      *router.Router
	NewOperation func() *operation.Operation
}

// New returns a Gateway serving r, building a fresh *operation.Operation
// per request via newOperation.
func New(r *router.Router, newOperation func() *operation.Operation) *Gateway {
	return &Gateway{Router: r, NewOperation: newOperation}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := fromHTTPRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	match, immediate, allowed := g.Router.Route(req)
	op := g.NewOperation()

	write := func(resp *wdadomain.Response) { writeHTTPResponse(w, resp) }

	if immediate != nil {
		op.HandleImmediate(ctx, immediate, allowed, write)
		return
	}

	op.AllowedMethods = match.AllowedMethods
	op.Handle(ctx, match.Handler, req, write)
}

// fromHTTPRequest builds the core's transport-agnostic Request view from a
// net/http.Request: method, URI, headers, body, and the is-https/
// is-localhost flags handlers consult for scan-device authentication
// defaults gated by the settings store.
func fromHTTPRequest(r *http.Request) (*wdadomain.Request, error) {
	method, ok := httpkit.ParseMethod(r.Method)
	if !ok {
		method = httpkit.Method(strings.ToUpper(r.Method))
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}

	headers := httpkit.NewHeader()
	for key := range r.Header {
		headers.Set(key, r.Header.Get(key))
	}

	uri := httpkit.ParseURI(r.URL.Path)
	uri.RawQuery = r.URL.RawQuery

	return &wdadomain.Request{
		Method:      method,
		URI:         uri,
		Headers:     headers,
		Body:        body,
		IsHTTPS:     r.TLS != nil,
		IsLocalhost: isLocalhost(r.RemoteAddr),
	}, nil
}

// isLocalhost reports whether addr (a "host:port" RemoteAddr) names the
// loopback interface, used for the same unauthenticated-scan-devices
// allowance the settings store gates.
func isLocalhost(addr string) bool {
	host := addr
	if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		host = addr[:idx]
	}
	host = strings.Trim(host, "[]")
	return host == "127.0.0.1" || host == "::1" || host == "localhost"
}

// writeHTTPResponse writes the core's Response view onto a
// net/http.ResponseWriter, honoring the Response contract's invariant that
// a non-empty body always carries a consistent Content-Type/Content-Length
// pair.
func writeHTTPResponse(w http.ResponseWriter, resp *wdadomain.Response) {
	resp.ResponseHeaders.Each(func(key, value string) {
		w.Header().Set(key, value)
	})
	w.WriteHeader(int(resp.Status))
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// loggingMiddleware is a thin wrapper over gwlog.RequestID that also emits a
// single structured access-log record per request using the request-scoped
// logger.
func loggingMiddleware(next http.Handler) http.Handler {
	return gwlog.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := gwlog.LoggerFromContext(r.Context())
		logger.Info("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	}))
}

// requestTimeout bounds how long any single request (including the
// bounded result-behavior=auto wait internal/handlers performs) is
// allowed to run before chi's Timeout middleware cancels its context.
const requestTimeout = 45 * time.Second

// BuildHandler wraps gw in the gateway's transport-edge middleware stack:
// chi's panic Recoverer and request Timeout, a permissive CORS preflight
// responder (the per-route Access-Control-Allow-Methods header itself is
// still derived from the matched route — see internal/operation/cors.go —
// this only handles the preflight OPTIONS round-trip browsers issue before
// the route ever matches), and the gateway's own request-id/access-log
// middleware. cmd/wdxgwd mounts the result directly as its http.Server
// Handler.
func BuildHandler(gw *Gateway) http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.Timeout(requestTimeout))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   operation.ParseAllowedRequestHeaders(),
		ExposedHeaders:   operation.ParseExposedResponseHeaders(),
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(loggingMiddleware)
	mux.Mount("/", gw)
	return mux
}
