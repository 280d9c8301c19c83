package wdadomain

import "strings"

// ParameterValue is a single parameter's value together with the type
// metadata the wire format carries alongside it: a data type name (e.g.
// "int32", "float64", "string", "bool") and a data rank (0 for a scalar,
// >0 for an array of that many dimensions).
//
// Value holds the natural Go representation (bool, float64, string, []any,
// or nil). For datatypes whose name contains "int" or "float", the encoder
// additionally emits StringValue: the full-precision decimal form of Value,
// because JSON numbers only carry 53 bits of integer precision and larger
// ints/floats would silently lose precision crossing into JavaScript.
type ParameterValue struct {
	Value       any
	DataType    string
	DataRank    int
	StringValue string
	HasString   bool
}

// NeedsStringValue reports whether dataType requires the StringValue
// sidecar on encode.
func NeedsStringValue(dataType string) bool {
	lower := strings.ToLower(dataType)
	return strings.Contains(lower, "int") || strings.Contains(lower, "float")
}
