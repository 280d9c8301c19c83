package jsonapi

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/wago/wdx-gateway/internal/httpkit"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MethodInvocationInArgs is the strict deserialization target for a method
// invocation's input arguments: an object of name -> ParameterValue.
type MethodInvocationInArgs map[string]wdadomain.ParameterValue

// wireParameterValue mirrors the {value, stringValue} shape a request body
// may specify either or both of — value, stringValue, or both, which must
// agree when both are present.
type wireParameterValue struct {
	Value       any    `json:"value"`
	StringValue string `json:"stringValue"`
	HasValue    bool   `json:"-"`
	HasString   bool   `json:"-"`
}

func (w *wireParameterValue) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["value"]; ok {
		if err := json.Unmarshal(v, &w.Value); err != nil {
			return err
		}
		w.HasValue = true
	}
	if v, ok := raw["stringValue"]; ok {
		if err := json.Unmarshal(v, &w.StringValue); err != nil {
			return err
		}
		w.HasString = true
	}
	return nil
}

// DecodeMethodInvocationInArgs parses body as a MethodInvocationInArgs
// object. Every parameter entry must specify "value", "stringValue", or
// both (in which case they must agree once rendered to string); violations
// become a BadRequest *Error pointing at the offending entry.
func DecodeMethodInvocationInArgs(body []byte) (MethodInvocationInArgs, *Error) {
	var raw map[string]wireParameterValue
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, HTTPErrorf(httpkit.StatusBadRequest, "Bad Request", "malformed method invocation arguments: %v", err)
	}
	out := make(MethodInvocationInArgs, len(raw))
	for name, w := range raw {
		if !w.HasValue && !w.HasString {
			return nil, AttributeError(httpkit.StatusBadRequest, "Bad Request", -1, name)
		}
		if w.HasValue && w.HasString {
			if fmt.Sprint(w.Value) != w.StringValue {
				return nil, AttributeError(httpkit.StatusBadRequest, "value and stringValue disagree", -1, name)
			}
		}
		pv := wdadomain.ParameterValue{Value: w.Value, StringValue: w.StringValue, HasString: w.HasString}
		if !w.HasValue {
			pv.Value = w.StringValue
		}
		out[name] = pv
	}
	return out, nil
}

// CreateMonitoringListRequest is the strict deserialization target for a
// POST /monitoring-lists body.
type CreateMonitoringListRequest struct {
	Type       string
	Timeout    uint16
	Parameters []wdadomain.ParameterInstancePath
}

type wireCreateMonitoringListRequest struct {
	Data struct {
		Type       string `json:"type" validate:"required,eq=monitoring-lists"`
		Attributes struct {
			// Timeout is kept as the raw JSON token rather than json.Number:
			// json.Number accepts a quoted numeric string ("5") as well as a
			// bare literal (5), but parseTimeoutLiteral must reject the
			// quoted form. Keeping the raw bytes and feeding them straight
			// into parseTimeoutLiteral makes the quote characters
			// themselves fail the decimal-digit scan.
			Timeout json.RawMessage `json:"timeout"`
		} `json:"attributes"`
		Relationships struct {
			Parameters struct {
				Data []struct {
					ID   string `json:"id" validate:"required"`
					Type string `json:"type"`
				} `json:"data" validate:"required,min=1,dive"`
			} `json:"parameters"`
		} `json:"relationships"`
	} `json:"data" validate:"required"`
}

// DecodeCreateMonitoringListRequest parses and validates a POST
// /monitoring-lists body: data.type must be "monitoring-lists",
// attributes.timeout must be an integer in [0, 65535], and every
// relationships.parameters.data[*].id must parse as a
// ParameterInstancePath.
func DecodeCreateMonitoringListRequest(body []byte) (CreateMonitoringListRequest, *Error) {
	var wire wireCreateMonitoringListRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return CreateMonitoringListRequest{}, HTTPErrorf(httpkit.StatusBadRequest, "Bad Request", "malformed monitoring list request: %v", err)
	}
	if wire.Data.Type != "monitoring-lists" {
		return CreateMonitoringListRequest{}, AttributeError(httpkit.StatusBadRequest, "Bad Request", 0, "type")
	}
	if err := validate.Struct(wire); err != nil {
		return CreateMonitoringListRequest{}, AttributeError(httpkit.StatusBadRequest, "Bad Request", 0, "relationships/parameters")
	}
	timeout, ok := parseTimeoutLiteral(string(wire.Data.Attributes.Timeout))
	if !ok {
		return CreateMonitoringListRequest{}, AttributeError(httpkit.StatusBadRequest, "Bad Request", 0, "timeout")
	}
	paths := make([]wdadomain.ParameterInstancePath, 0, len(wire.Data.Relationships.Parameters.Data))
	for j, ref := range wire.Data.Relationships.Parameters.Data {
		p, err := wdadomain.ParseParameterInstancePath(ref.ID)
		if err != nil {
			return CreateMonitoringListRequest{}, RelationshipError(httpkit.StatusBadRequest, "Bad Request", 0, "parameters", j)
		}
		paths = append(paths, p)
	}
	return CreateMonitoringListRequest{Type: wire.Data.Type, Timeout: timeout, Parameters: paths}, nil
}

// ValuePathRequest is a single (path, value) assignment, the deserialization
// target for PATCH /parameters/:id-like bodies.
type ValuePathRequest struct {
	Path  wdadomain.ParameterInstancePath
	Value wdadomain.ParameterValue
}

type wireValuePathRequest struct {
	ID    string              `json:"id" validate:"required"`
	Value wireParameterValue  `json:"value"`
}

// DecodeValuePathRequest parses a single value-path assignment.
func DecodeValuePathRequest(body []byte) (ValuePathRequest, *Error) {
	var wire wireValuePathRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return ValuePathRequest{}, HTTPErrorf(httpkit.StatusBadRequest, "Bad Request", "malformed value path request: %v", err)
	}
	path, perr := wdadomain.ParseParameterInstancePath(wire.ID)
	if perr != nil {
		return ValuePathRequest{}, AttributeError(httpkit.StatusBadRequest, "Bad Request", -1, "id")
	}
	if !wire.Value.HasValue && !wire.Value.HasString {
		return ValuePathRequest{}, AttributeError(httpkit.StatusBadRequest, "Bad Request", -1, "value")
	}
	return ValuePathRequest{
		Path:  path,
		Value: wdadomain.ParameterValue{Value: wire.Value.Value, StringValue: wire.Value.StringValue, HasString: wire.Value.HasString},
	}, nil
}

// DecodeValuePathRequestBatch parses a JSON array of value-path requests.
// The first entry that fails to decode aborts the batch, and its error
// carries that entry's array index as DataIndex, so its pointer gets the
// "/data/<i>" prefix.
func DecodeValuePathRequestBatch(body []byte) ([]ValuePathRequest, *Error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, HTTPErrorf(httpkit.StatusBadRequest, "Bad Request", "malformed value path batch: %v", err)
	}
	out := make([]ValuePathRequest, 0, len(raw))
	for i, item := range raw {
		v, err := DecodeValuePathRequest(item)
		if err != nil {
			err.DataIndex = i
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseTimeoutLiteral accepts only a decimal integer literal consumed in
// full, in [0, 65535]. Reals, leading '+', leading/trailing whitespace,
// and overflow are all rejected.
func parseTimeoutLiteral(s string) (uint16, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		n = n*10 + uint32(s[i]-'0')
		if n > 65535 {
			return 0, false
		}
	}
	return uint16(n), true
}
