package jsonapi

import (
	"fmt"
	"strconv"
	"strings"
)

// APIVersion is the fixed jsonapi.version member every document carries.
const APIVersion = "1.0"

// RestAPIVersion is the gateway's own API version, reported in every
// document's meta.version member.
const RestAPIVersion = "1.0"

// Document is a single-resource JSON:API document: jsonapi/meta/links plus
// exactly one data payload (already encoded to a plain map/slice shape by
// the encode step).
type Document struct {
	BasePath string
	Query    string // raw query string, without leading '?', as received
	Meta     map[string]any
	Data     any
	Included []any
}

// SelfLink returns the document's self link: BasePath plus Query if any.
func (d Document) SelfLink() string {
	if d.Query == "" {
		return d.BasePath
	}
	return d.BasePath + "?" + d.Query
}

// CollectionDocument is a Document over a page of a larger collection, with
// paging metadata used to compute stable first/prev/next/last links.
type CollectionDocument struct {
	Document

	// PageOffset/PageLimit describe the page actually returned.
	PageOffset uint32
	PageLimit  uint32
	// PageElementMax is the total number of elements in the unpaged
	// collection.
	PageElementMax uint32
}

// QueryWithoutPagination strips every "page[...]=..." segment (and the
// separator that preceded it) from the document's raw query string,
// rewriting a leading '&' left behind to nothing (the caller re-adds '?' or
// '&' as needed when building a link).
func QueryWithoutPagination(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, seg := range strings.Split(rawQuery, "&") {
		if seg == "" {
			continue
		}
		key := seg
		if idx := strings.IndexByte(seg, '='); idx >= 0 {
			key = seg[:idx]
		}
		if strings.HasPrefix(key, "page[") {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "&")
}

// buildPageLink appends a "page[limit]=L&page[offset]=O" pair to
// queryWithoutPagination (preserving any other query params), using '?' if
// there were none and '&' otherwise.
func buildPageLink(basePath, queryWithoutPagination string, limit, offset uint32) string {
	pagePart := "page[limit]=" + strconv.FormatUint(uint64(limit), 10) +
		"&page[offset]=" + strconv.FormatUint(uint64(offset), 10)
	if queryWithoutPagination == "" {
		return basePath + "?" + pagePart
	}
	return basePath + "?" + queryWithoutPagination + "&" + pagePart
}

// BuildLinks deterministically computes the self/first/last/next/prev page
// links. last is the largest offset O* such that O* mod L == offset mod L,
// computed by starting from offset (if the collection extends past the
// current page) or 0, then advancing by L while room remains.
func (d CollectionDocument) BuildLinks() map[string]string {
	links := map[string]string{}
	qwp := QueryWithoutPagination(d.Query)
	limit, offset, max := d.PageLimit, d.PageOffset, d.PageElementMax

	links["self"] = buildPageLink(d.BasePath, qwp, limit, offset)
	links["first"] = buildPageLink(d.BasePath, qwp, limit, 0)

	last := uint32(0)
	if max > limit {
		last = offset
	}
	for max > last+limit {
		last += limit
	}
	links["last"] = buildPageLink(d.BasePath, qwp, limit, last)

	if offset+limit < max {
		links["next"] = buildPageLink(d.BasePath, qwp, limit, offset+limit)
	}
	if offset > 0 {
		prev := uint32(0)
		if offset > limit {
			prev = offset - limit
		}
		links["prev"] = buildPageLink(d.BasePath, qwp, limit, prev)
	}
	return links
}

// ApplyPaging slices items to the half-open range [offset, offset+limit),
// clamped to the slice's actual length. It never panics on out-of-range
// offset/limit.
func ApplyPaging[T any](items []T, limit, offset uint32) []T {
	n := uint64(len(items))
	start := uint64(offset)
	if start > n {
		start = n
	}
	end := start + uint64(limit)
	if end > n {
		end = n
	}
	return items[start:end]
}

// ErrPagingOverflow is returned by CheckedApplyPaging when offset+limit
// would exceed the uint32 range. In practice
// ParseUint32Bounded already bounds both inputs well below this, so this
// is a defense against callers that construct a CollectionDocument from
// unvalidated values directly.
var ErrPagingOverflow = fmt.Errorf("page offset + limit overflow")

// CheckedApplyPaging is ApplyPaging with an overflow check.
func CheckedApplyPaging[T any](items []T, limit, offset uint32) ([]T, error) {
	if uint64(offset)+uint64(limit) > uint64(^uint32(0)) {
		return nil, ErrPagingOverflow
	}
	return ApplyPaging(items, limit, offset), nil
}
