package wdadomain

// Resource is the core-view representation of one JSON:API resource object:
// a type, an id, an opaque typed payload (the attributes, encoded by
// internal/jsonapi once it knows the concrete Go type), named relationships,
// and self/related links.
//
// Data is left as `any` here deliberately: wdadomain describes the shape
// every resource shares, but the attribute payload itself (a device, a
// parameter, a monitoring list, ...) is domain-specific and is supplied by
// the handler that builds the resource.
type Resource struct {
	Type          string
	ID            string
	Data          any
	Relationships map[string]Relationship
	Links         map[string]string
}

// ErrorLike is implemented by attribute payloads that want to report
// themselves as "error-like" without the resource wrapper needing to know
// their concrete type, e.g. a parameter resource that carries a read error
// instead of a value.
type ErrorLike interface {
	HasErrorLikeMeta() bool
}

// HasErrors reports whether the resource carries one or more attached
// errors. Resources built by handlers that short-circuited to a
// *jsonapi.Error never reach here; this predicate covers the case where the
// resource itself was built successfully but its payload records a
// per-field problem (e.g. a parameter whose value could not be read).
func (r Resource) HasErrors() bool {
	el, ok := r.Data.(ErrorLike)
	return ok && el.HasErrorLikeMeta()
}

// HasErrorLikeMeta reports the same thing as HasErrors; it exists so a
// Resource can itself satisfy ErrorLike when nested inside another
// resource's attribute payload (e.g. a monitoring list's included parameter
// resources).
func (r Resource) HasErrorLikeMeta() bool {
	return r.HasErrors()
}
