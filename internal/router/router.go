// Package router implements templated route compilation with typed path
// captures, method/content negotiation, and redirect emission. It hands
// the operation pipeline (internal/operation) a Match — a resolved
// handler, the path parameters the template captured, and the set of
// methods allowed on the route — or produces a final Response itself for
// cases the pipeline never sees a handler for (redirects, 404, 405, 406,
// 415, OPTIONS).
//
// Route templates are compiled once at startup; the compiled regex
// handles path-wildcard segments (`#name#`) while still giving each named
// parameter its own capture group, rather than a hand-rolled trie, which
// isn't worth the complexity at this route table's size.
package router

import (
	"regexp"
	"strings"

	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// paramToken matches a `:name:` (no slash) or `#name#` (may contain slash)
// path template placeholder.
var paramToken = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9_]*):|#([A-Za-z][A-Za-z0-9_]*)#`)

// RedirectTarget builds the Location a redirect route resolves to, given
// the path parameters the template captured and the request's raw query
// string.
type RedirectTarget func(params map[string]string, rawQuery string) string

type route struct {
	template       string
	pattern        *regexp.Regexp
	paramNames     []string
	matchFollowing bool

	handlers map[httpkit.Method]operation.Handler
	docLink  string

	isRedirect     bool
	redirectTarget RedirectTarget
}

// Match is the resolved outcome of routing a request to a concrete handler:
// the handler itself, the path parameters its template captured, the full
// set of methods the matched route allows (for CORS and 405/OPTIONS), and
// the route's documentation link, if any.
type Match struct {
	Handler        operation.Handler
	AllowedMethods []httpkit.Method
	PathParams     map[string]string
	DocLink        string
}

// Router holds the gateway's compiled route table, mounted under a single
// service base path (e.g. "/wda").
type Router struct {
	serviceBase string
	routes      []*route
	trailing    map[string]bool
}

// New returns a Router mounted at serviceBase (no trailing slash, e.g.
// "/wda"; "" mounts at the root).
func New(serviceBase string) *Router {
	return &Router{serviceBase: serviceBase, trailing: make(map[string]bool)}
}

// compileTemplate turns a route template into an anchored, case-insensitive
// regular expression plus the ordered list of parameter names its
// placeholders captured. Literal segments are regex-escaped first, then
// placeholders are substituted with capture groups.
func compileTemplate(template string, matchFollowing bool) (*regexp.Regexp, []string) {
	var out strings.Builder
	var names []string
	out.WriteString("(?i)^")

	rest := template
	offset := 0
	for {
		loc := paramToken.FindStringSubmatchIndex(rest[offset:])
		if loc == nil {
			out.WriteString(regexp.QuoteMeta(rest[offset:]))
			break
		}
		start, end := loc[0]+offset, loc[1]+offset
		out.WriteString(regexp.QuoteMeta(rest[offset:start]))
		token := rest[start:end]
		name := token[1 : len(token)-1]
		names = append(names, name)
		if token[0] == ':' {
			out.WriteString(`([^/?]+)`)
		} else {
			out.WriteString(`([^?]+)`)
		}
		offset = end
	}

	if matchFollowing {
		out.WriteString(`(?:/.*)?`)
	}
	out.WriteString("$")
	return regexp.MustCompile(out.String()), names
}

func (rt *Router) newRoute(template string, matchFollowing bool) *route {
	pattern, names := compileTemplate(template, matchFollowing)
	r := &route{
		template:       template,
		pattern:        pattern,
		paramNames:     names,
		matchFollowing: matchFollowing,
		handlers:       make(map[httpkit.Method]operation.Handler),
	}
	rt.routes = append(rt.routes, r)
	return r
}

// routeForTemplate finds or creates the (non-redirect) route registered for
// template, so that multiple Handle calls for the same template share one
// compiled route with several methods.
func (rt *Router) routeForTemplate(template string) *route {
	for _, r := range rt.routes {
		if r.template == template && !r.isRedirect {
			return r
		}
	}
	return rt.newRoute(template, false)
}

// Handle registers handler for (method, template). template must not end
// in "/"; a trailing-slash redirect twin to the canonical URL is
// auto-registered the first time a template is used.
func (rt *Router) Handle(method httpkit.Method, template string, handler operation.Handler, docLink string) {
	if strings.HasSuffix(template, "/") && template != "" {
		panic("router: template must not end in \"/\": " + template)
	}
	r := rt.routeForTemplate(template)
	r.handlers[method] = handler
	if docLink != "" {
		r.docLink = docLink
	}
	rt.registerTrailingSlashRedirect(template)
}

// registerTrailingSlashRedirect adds the template+"/" redirect-to-canonical
// twin exactly once per template.
func (rt *Router) registerTrailingSlashRedirect(template string) {
	if rt.trailing[template] {
		return
	}
	rt.trailing[template] = true
	twin := rt.newRoute(template+"/", false)
	twin.isRedirect = true
	canonical := template
	twin.redirectTarget = func(params map[string]string, rawQuery string) string {
		return buildTarget(rt.serviceBase+canonical, params, twin.paramNames, rawQuery)
	}
}

// Redirect registers a standing redirect from template to a Location built
// by target, against every HTTP method, with match-following enabled: any
// suffix after the template matches too, allowing bulk redirects of
// .../features/... style URLs.
func (rt *Router) Redirect(template string, target RedirectTarget) {
	r := rt.newRoute(template, true)
	r.isRedirect = true
	r.redirectTarget = target
}

// buildTarget substitutes param placeholders in rawTemplate (already
// service-base-prefixed) with their captured values and appends rawQuery.
func buildTarget(rawTemplate string, params map[string]string, paramNames []string, rawQuery string) string {
	out := rawTemplate
	for _, name := range paramNames {
		out = strings.NewReplacer(":"+name+":", params[name], "#"+name+"#", params[name]).Replace(out)
	}
	if rawQuery != "" {
		out += "?" + rawQuery
	}
	return out
}

// Route matches req against the compiled route table and returns either a
// Match to hand to the operation pipeline, or a final Response the router
// itself produced (redirect, 404, 405, 406, 415, or an OPTIONS reply),
// together with the allowed-methods set to apply to that response's CORS
// headers (nil if the path never matched any route).
func (rt *Router) Route(req *wdadomain.Request) (*Match, *wdadomain.Response, []httpkit.Method) {
	req.Serializer = jsonapi.Serializer{}
	req.Deserializer = jsonapi.Serializer{}

	routePath, ok := rt.stripServiceBase(req.URI.Path)
	if !ok {
		return nil, operation.ErrorResponse(jsonapi.HTTPError(httpkit.StatusInternalServerError, "Internal Server Error")), nil
	}

	for _, r := range rt.routes {
		m := r.pattern.FindStringSubmatch(routePath)
		if m == nil {
			continue
		}
		params := make(map[string]string, len(r.paramNames))
		for i, name := range r.paramNames {
			params[name] = m[i+1]
		}

		if containsUpper(routePath) {
			return nil, redirectResponse(req.Method, lowercasedLocation(req.URI.Path, req.URI.RawQuery)), nil
		}

		if r.isRedirect {
			return nil, redirectResponse(req.Method, r.redirectTarget(params, req.URI.RawQuery)), nil
		}

		allowed := allowedMethodsOf(r)

		if req.Method == httpkit.MethodOptions {
			return nil, optionsResponse(allowed), allowed
		}

		if handler, ok := r.handlers[req.Method]; ok {
			if resp := negotiate(req, req.Method); resp != nil {
				return nil, resp, allowed
			}
			req.PathParams = params
			return &Match{Handler: handler, AllowedMethods: allowed, PathParams: params, DocLink: r.docLink}, nil, nil
		}

		if req.Method == httpkit.MethodHead {
			if getHandler, ok := r.handlers[httpkit.MethodGet]; ok {
				if resp := negotiate(req, httpkit.MethodGet); resp != nil {
					return nil, resp, allowed
				}
				req.PathParams = params
				return &Match{Handler: headWrapper(getHandler), AllowedMethods: allowed, PathParams: params, DocLink: r.docLink}, nil, nil
			}
		}

		return nil, methodNotAllowedResponse(allowed), allowed
	}

	return nil, notFoundResponse(), nil
}

// stripServiceBase verifies req's path starts with the router's service
// base followed by "/", "?", or end-of-string, and returns the remainder
// (always starting with "/" or empty).
func (rt *Router) stripServiceBase(path string) (string, bool) {
	base := rt.serviceBase
	if base == "" {
		return path, true
	}
	if path == base {
		return "", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}

func containsUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}

func lowercasedLocation(path, rawQuery string) string {
	out := strings.ToLower(path)
	if rawQuery != "" {
		out += "?" + rawQuery
	}
	return out
}

// allowedMethodsOf reports every method r has a handler for, plus HEAD,
// unconditionally: the spec's "allowed methods" set for a matched route is
// always R.methods ∪ {HEAD}, whether or not the route has a GET handler to
// serve HEAD generically from.
func allowedMethodsOf(r *route) []httpkit.Method {
	methods := make([]httpkit.Method, 0, len(r.handlers)+1)
	hasHead := false
	for m := range r.handlers {
		methods = append(methods, m)
		if m == httpkit.MethodHead {
			hasHead = true
		}
	}
	if !hasHead {
		methods = append(methods, httpkit.MethodHead)
	}
	return methods
}

// headWrapper adapts a GET handler's response into a HEAD response: same
// status and headers, empty body (the Response contract's content-length
// header, if the GET body set one, is left in place so a HEAD caller can
// still learn the resource's size).
func headWrapper(get operation.Handler) operation.Handler {
	return operation.HeadWrapper(get)
}

func redirectResponse(method httpkit.Method, location string) *wdadomain.Response {
	status := httpkit.StatusTemporaryRedirect
	if method == httpkit.MethodGet || method == httpkit.MethodHead {
		status = httpkit.StatusMovedPermanently
	}
	resp := &wdadomain.Response{Status: status, ResponseHeaders: httpkit.NewHeader()}
	resp.SetHeader("Location", location)
	return resp
}

func optionsResponse(allowed []httpkit.Method) *wdadomain.Response {
	resp := &wdadomain.Response{Status: httpkit.StatusNoContent, ResponseHeaders: httpkit.NewHeader()}
	resp.SetHeader("Allow", httpkit.JoinMethods(allowed))
	return resp
}

func methodNotAllowedResponse(allowed []httpkit.Method) *wdadomain.Response {
	resp := operation.ErrorResponse(jsonapi.HTTPError(httpkit.StatusMethodNotAllowed, httpkit.StatusMethodNotAllowed.ReasonPhrase()))
	resp.SetHeader("Allow", httpkit.JoinMethods(allowed))
	return resp
}

func notFoundResponse() *wdadomain.Response {
	return operation.ErrorResponse(jsonapi.HTTPError(httpkit.StatusNotFound, httpkit.StatusNotFound.ReasonPhrase()))
}

// negotiate applies content negotiation: the single supported media type
// must appear in Accept (if Accept is present at all), and a
// PATCH/POST/PUT body's Content-Type must match it exactly. Returns nil
// when negotiation passes.
func negotiate(req *wdadomain.Request, effectiveMethod httpkit.Method) *wdadomain.Response {
	if accept := req.Headers.Get("Accept"); accept != "" && !acceptable(accept) {
		return operation.ErrorResponse(jsonapi.HTTPError(httpkit.StatusNotAcceptable, httpkit.StatusNotAcceptable.ReasonPhrase()))
	}
	switch effectiveMethod {
	case httpkit.MethodPost, httpkit.MethodPut, httpkit.MethodPatch:
		if ct := req.Headers.Get("Content-Type"); ct != "" && !sameMediaType(ct, jsonapi.MediaType) {
			return operation.ErrorResponse(jsonapi.HTTPError(httpkit.StatusUnsupportedMediaType, httpkit.StatusUnsupportedMediaType.ReasonPhrase()))
		}
	}
	return nil
}

func acceptable(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		part = strings.TrimSpace(part)
		if part == "*/*" || sameMediaType(part, jsonapi.MediaType) {
			return true
		}
	}
	return false
}

// sameMediaType compares the type/subtype portion of a header value
// against want, ignoring any ";charset=..."-style parameters and case.
func sameMediaType(header, want string) bool {
	if idx := strings.IndexByte(header, ';'); idx >= 0 {
		header = header[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(header), want)
}
