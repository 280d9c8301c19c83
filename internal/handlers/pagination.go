package handlers

import (
	"github.com/wago/wdx-gateway/internal/filterquery"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// parsePagination reads page[limit]/page[offset] from req's query, returning
// a *jsonapi.Error (via badRequestPointer) on an invalid value.
func parsePagination(req *wdadomain.Request) (filterquery.Pagination, error) {
	page, _, qerr := filterquery.ParsePagination(req.URI.Query())
	if qerr != nil {
		return page, badRequestPointer(qerr.Pointer, qerr.Message)
	}
	return page, nil
}

// parseParameterFilter reads every filter[...] query parameter into a
// wdadomain.ParameterFilter, or a *jsonapi.Error on the first invalid one.
func parseParameterFilter(req *wdadomain.Request) (wdadomain.ParameterFilter, error) {
	f, qerr := filterquery.ParseParameterFilter(req.URI.Query())
	if qerr != nil {
		return f, badRequestPointer(qerr.Pointer, qerr.Message)
	}
	return f, nil
}
