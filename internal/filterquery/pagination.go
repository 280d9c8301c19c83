package filterquery

import "github.com/wago/wdx-gateway/internal/httpkit"

// Default pagination values.
const (
	DefaultPageLimit  uint32 = 255
	DefaultPageOffset uint32 = 0
)

// Pagination is a parsed, bounds-checked page[limit]/page[offset] pair.
type Pagination struct {
	Limit  uint32
	Offset uint32
}

// ParsePagination reads page[limit] and page[offset] from q, defaulting to
// 255/0 when absent. Both values must fit within u32/2 (ParseUint32Bounded's
// bound); if limit+offset would overflow even that, the offset is capped
// down to the largest value that keeps the sum in range. capped reports
// whether that capping occurred, so the caller can log a warning.
func ParsePagination(q httpkit.Query) (Pagination, bool, *QueryError) {
	p := Pagination{Limit: DefaultPageLimit, Offset: DefaultPageOffset}

	if raw, ok := q.Get("page[limit]"); ok {
		v, valid := httpkit.ParseUint32Bounded(raw)
		if !valid {
			return p, false, newQueryError("page[limit]", "invalid page[limit] value %q", raw)
		}
		p.Limit = v
	}
	if raw, ok := q.Get("page[offset]"); ok {
		v, valid := httpkit.ParseUint32Bounded(raw)
		if !valid {
			return p, false, newQueryError("page[offset]", "invalid page[offset] value %q", raw)
		}
		p.Offset = v
	}

	const bound = uint64(^uint32(0)) / 2
	capped := false
	if uint64(p.Limit)+uint64(p.Offset) > bound {
		if uint64(p.Limit) > bound {
			p.Limit = uint32(bound)
		}
		p.Offset = uint32(bound - uint64(p.Limit))
		capped = true
	}
	return p, capped, nil
}
