package handlers

import (
	"context"

	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// ListEnumDefinitions handles GET /enum-definitions.
func ListEnumDefinitions(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	enums, err := waitFrontend(ctx, op.Backend.GetAllEnumDefinitions(ctx), func(r frontend.Result[[]frontend.EnumDefinition]) error {
		return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_ENUM")
	})
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	data := make([]any, 0, len(enums))
	for _, e := range enums {
		data = append(data, enumDefinitionResource(req.URI.Path, e))
	}
	doc := document(req, data)
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

// GetEnumDefinition handles GET /enum-definitions/{name}. Concurrent lookups
// of the same name are collapsed into a single backend call via
// op.EnumLookups, since enum definitions are slow-changing static metadata.
func GetEnumDefinition(ctx context.Context, op *operation.Operation, req *wdadomain.Request) *frontend.Future[*wdadomain.Response] {
	name, _ := req.PathParam("name")
	e, err := fetchEnumDefinition(ctx, op, name)
	if err != nil {
		return frontend.Rejected[*wdadomain.Response](err)
	}
	doc := document(req, enumDefinitionResource(stripLastSegment(req.URI.Path), e))
	resp, serr := serialize(req, httpkit.StatusOK, doc)
	return resolved(resp, serr)
}

func fetchEnumDefinition(ctx context.Context, op *operation.Operation, name string) (frontend.EnumDefinition, error) {
	if op.EnumLookups == nil {
		return waitFrontend(ctx, op.Backend.GetEnumDefinition(ctx, name), func(r frontend.Result[frontend.EnumDefinition]) error {
			return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_ENUM")
		})
	}
	v, err, _ := op.EnumLookups.Do(name, func() (any, error) {
		return waitFrontend(ctx, op.Backend.GetEnumDefinition(ctx, name), func(r frontend.Result[frontend.EnumDefinition]) error {
			return backendFailure(r.Status, r.DomainStatusCode, "UNKNOWN_ENUM")
		})
	})
	if err != nil {
		return frontend.EnumDefinition{}, err
	}
	return v.(frontend.EnumDefinition), nil
}
