package filterquery

import "strings"

// ParseInclude parses the JSON:API `include=a.b,c` query parameter into a
// list of segment lists: each comma-separated entry is itself split on '.'
// into its relationship path segments. An empty raw value yields nil.
//
// The gateway only honors a single relationship path in practice (a
// monitoring list's "parameters"), per the Non-goals; this parser stays
// general, while Includes looks only at each entry's first segment, so
// deeper segments ("parameters.value") are ignored rather than rejected.
func ParseInclude(raw string) [][]string {
	if raw == "" {
		return nil
	}
	entries := strings.Split(raw, ",")
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		out = append(out, strings.Split(e, "."))
	}
	return out
}

// Includes reports whether the parsed include list contains the single
// given top-level relationship name (ignoring any deeper path segments).
func Includes(segments [][]string, name string) bool {
	for _, s := range segments {
		if len(s) > 0 && s[0] == name {
			return true
		}
	}
	return false
}
