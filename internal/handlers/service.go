package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// apiVersion/coreVersion are compiled-in constants; a real deployment would
// stamp coreVersion from the backend's own self-description, but the
// narrow Frontend facade carries no such call.
const (
	apiVersion  = jsonapi.APIVersion
	coreVersion = "1.0"
)

// serviceIdentityAttributes is the attribute payload of the GET / response.
type serviceIdentityAttributes struct {
	APIVersion     string `json:"apiVersion"`
	CoreVersion    string `json:"coreVersion"`
	ServiceName    string `json:"serviceName"`
	ServiceVersion string `json:"serviceVersion"`
}

// ServiceIdentity handles GET / — the gateway's self-description.
func ServiceIdentity(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	r := wdadomain.Resource{
		Type:  "service",
		ID:    op.Identity.Name,
		Links: map[string]string{"self": req.URI.Path},
	}
	attrs := serviceIdentityAttributes{
		APIVersion:     apiVersion,
		CoreVersion:    coreVersion,
		ServiceName:    op.Identity.Name,
		ServiceVersion: op.Identity.Version,
	}
	doc := document(req, jsonapi.EncodeResource(r, attrs))
	resp, err := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, err)
}
