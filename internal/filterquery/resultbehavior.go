package filterquery

import "github.com/wago/wdx-gateway/internal/wdadomain"

// ParseResultBehavior parses the `result-behavior` query parameter into a
// wdadomain.ResultBehavior. An absent parameter defaults to "any", which
// the operation pipeline resolves to automatic behavior.
func ParseResultBehavior(raw string, present bool) (wdadomain.ResultBehavior, *QueryError) {
	if !present || raw == "" {
		return wdadomain.ResultBehaviorAny, nil
	}
	switch raw {
	case "any":
		return wdadomain.ResultBehaviorAny, nil
	case "auto":
		return wdadomain.ResultBehaviorAutomatic, nil
	case "async":
		return wdadomain.ResultBehaviorAsync, nil
	case "sync":
		return wdadomain.ResultBehaviorSync, nil
	default:
		return wdadomain.ResultBehaviorAny, newQueryError("result-behavior", "invalid result-behavior value %q", raw)
	}
}
