// Package operation implements the per-request operation pipeline: CORS
// header emission, backend-call dispatch against a Future, response
// write-and-flush, the deferred-handler "write-after-ack" fan-out
// discipline, and the projection of every error kind to an HTTP response.
package operation

import (
	"strings"

	"github.com/wago/wdx-gateway/internal/httpkit"
)

// AllowedRequestHeaders and ExposedResponseHeaders are the fixed CORS
// whitelists; they are not derived per-route.
const (
	AllowedRequestHeaders  = "Accept, Authorization, Content-Length, Content-Type, Wago-Wdx-No-Auth-Popup"
	ExposedResponseHeaders = "Content-Length, Content-Type, Www-Authenticate, Wago-Wdx-Auth-Token, Wago-Wdx-Auth-Token-Expiration, Wago-Wdx-Auth-Token-Type"
)

// ApplyCORSHeaders writes Access-Control-Allow-Methods (derived from the
// matched route's allowed methods) plus the two fixed whitelists onto resp.
func ApplyCORSHeaders(resp *httpkit.Header, allowedMethods []httpkit.Method) {
	if len(allowedMethods) > 0 {
		resp.Set("Access-Control-Allow-Methods", httpkit.JoinMethods(allowedMethods))
	}
	resp.Set("Access-Control-Allow-Headers", AllowedRequestHeaders)
	resp.Set("Access-Control-Expose-Headers", ExposedResponseHeaders)
}

// ParseAllowedRequestHeaders/ParseExposedResponseHeaders are provided for
// tests and the OPTIONS handler that want the whitelist as a slice instead
// of the literal comma-joined constant.
func ParseAllowedRequestHeaders() []string {
	return splitCommaList(AllowedRequestHeaders)
}

func ParseExposedResponseHeaders() []string {
	return splitCommaList(ExposedResponseHeaders)
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
