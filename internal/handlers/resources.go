package handlers

import (
	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/jsonapi"
	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// deviceAttributes is the wire-shape attribute payload of a "devices"
// resource.
type deviceAttributes struct {
	Name            string `json:"name"`
	ClassName       string `json:"className"`
	InstanceNumber  int    `json:"instanceNumber"`
	Description     string `json:"description,omitempty"`
	OrderNumber     string `json:"orderNumber,omitempty"`
	FirmwareVersion string `json:"firmwareVersion,omitempty"`
}

func deviceResource(basePath string, d frontend.Device) map[string]any {
	id := d.ID.String()
	r := wdadomain.Resource{
		Type: "devices",
		ID:   id,
		Links: map[string]string{
			"self": basePath + "/devices/" + id,
		},
		Relationships: map[string]wdadomain.Relationship{
			"features": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/devices/" + id + "/features",
			}),
			"subdevices": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/devices/" + id + "/subdevices",
			}),
		},
	}
	return jsonapi.EncodeResource(r, deviceAttributes{
		Name:            d.Name,
		ClassName:       d.ClassName,
		InstanceNumber:  d.InstanceNo,
		Description:     d.Description,
		OrderNumber:     d.OrderNumber,
		FirmwareVersion: d.Firmware,
	})
}

// featureAttributes is the wire-shape attribute payload of a "features"
// resource.
type featureAttributes struct {
	Name string `json:"name"`
}

// featureID renders a feature's wire id as "<device>-<name>", reusing
// ParameterInstancePath's dash-joined form since a feature is identified the
// same way a parameter is: a device plus a "/"-segmented name.
func featureID(device wdadomain.DeviceID, name string) string {
	return wdadomain.ParameterInstancePath{Device: device, Path: wdadomain.ParameterPath(name)}.String()
}

func parseFeatureID(s string) (wdadomain.DeviceID, string, error) {
	p, err := wdadomain.ParseParameterInstancePath(s)
	if err != nil {
		return wdadomain.DeviceID{}, "", err
	}
	return p.Device, string(p.Path), nil
}

func featureResource(basePath string, device wdadomain.DeviceID, f frontend.Feature) map[string]any {
	id := featureID(device, f.Name)
	r := wdadomain.Resource{
		Type: "features",
		ID:   id,
		Links: map[string]string{
			"self": basePath + "/features/" + id,
		},
		Relationships: map[string]wdadomain.Relationship{
			"includedfeatures": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/features/" + id + "/includedfeatures",
			}),
			"containedparameters": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/features/" + id + "/containedparameters",
			}),
			"containedmethods": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/features/" + id + "/containedmethods",
			}),
		},
	}
	return jsonapi.EncodeResource(r, featureAttributes{Name: f.Name})
}

// parameterDefinitionAttributes is the wire-shape attribute payload of a
// "parameter-definitions" resource.
type parameterDefinitionAttributes struct {
	DataType    string `json:"dataType"`
	DataRank    int    `json:"dataRank"`
	Beta        bool   `json:"beta"`
	Deprecated  bool   `json:"deprecated"`
	Writeable   bool   `json:"writeable"`
	UserSetting bool   `json:"userSetting"`
}

func parameterDefinitionResource(basePath string, def frontend.ParameterDefinition) map[string]any {
	id := def.Path.String()
	links := map[string]string{"self": basePath + "/parameter-definitions/" + id}
	rels := map[string]wdadomain.Relationship{}
	if isEnumType(def.DataType) {
		rels["enum"] = wdadomain.SingleRelationship(map[string]string{
			"related": basePath + "/enum-definitions/" + def.DataType,
		}, wdadomain.RelatedResource{Type: "enum-definitions", ID: def.DataType})
	}
	r := wdadomain.Resource{Type: "parameter-definitions", ID: id, Links: links, Relationships: rels}
	return jsonapi.EncodeResource(r, parameterDefinitionAttributes{
		DataType:    def.DataType,
		DataRank:    def.DataRank,
		Beta:        def.Beta,
		Deprecated:  def.Deprecated,
		Writeable:   def.Writeable,
		UserSetting: def.UserSetting,
	})
}

// isEnumType reports whether a parameter definition's data type names an
// enum definition (the "enum" relationship target for the
// /parameter-definitions/{id}/enum redirect).
func isEnumType(dataType string) bool {
	return len(dataType) > len("enum:") && dataType[:len("enum:")] == "enum:"
}

// enumNameOf extracts the enum-definitions id from an "enum:<name>" data
// type, or "" if dataType doesn't name one.
func enumNameOf(dataType string) string {
	if !isEnumType(dataType) {
		return ""
	}
	return dataType[len("enum:"):]
}

// methodDefinitionAttributes is the wire-shape attribute payload of a
// "methods"/"method-definitions" resource.
type methodDefinitionAttributes struct {
	InArgs  []string `json:"inArgs"`
	OutArgs []string `json:"outArgs"`
}

func methodDefinitionResource(basePath, resourceType string, def frontend.MethodDefinition) map[string]any {
	id := def.Path.String()
	r := wdadomain.Resource{
		Type: resourceType,
		ID:   id,
		Links: map[string]string{
			"self": basePath + "/" + resourceType + "/" + id,
		},
		Relationships: map[string]wdadomain.Relationship{
			"runs": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/" + resourceType + "/" + id + "/runs",
			}),
		},
	}
	return jsonapi.EncodeResource(r, methodDefinitionAttributes{InArgs: def.InArgs, OutArgs: def.OutArgs})
}

// enumValueWire is one named/numeric pair of an "enum-definitions" resource.
type enumValueWire struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type enumDefinitionAttributes struct {
	Values []enumValueWire `json:"values"`
}

func enumDefinitionResource(basePath string, e frontend.EnumDefinition) map[string]any {
	values := make([]enumValueWire, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, enumValueWire{Name: v.Name, Value: v.Value})
	}
	r := wdadomain.Resource{
		Type:  "enum-definitions",
		ID:    e.Name,
		Links: map[string]string{"self": basePath + "/enum-definitions/" + e.Name},
	}
	return jsonapi.EncodeResource(r, enumDefinitionAttributes{Values: values})
}

// parameterResource renders a "parameters" resource: the current value, or
// an error recorded in its place when the backend couldn't read it.
func parameterResource(basePath string, p wdadomain.ParameterResource) map[string]any {
	id := p.Path.String()
	r := wdadomain.Resource{
		Type:  "parameters",
		ID:    id,
		Data:  p,
		Links: map[string]string{"self": basePath + "/parameters/" + id},
		Relationships: map[string]wdadomain.Relationship{
			"referencedinstances": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/parameters/" + id + "/referencedinstances",
			}),
			"instances": wdadomain.EmptyRelationship(map[string]string{
				"related": basePath + "/parameters/" + id + "/instances",
			}),
		},
	}
	if p.Err != nil {
		return jsonapi.EncodeResource(r, map[string]any{"error": p.Err.Error()})
	}
	var attrs map[string]any
	if p.Value != nil {
		attrs = jsonapi.EncodeParameterValue(*p.Value)
	}
	return jsonapi.EncodeResource(r, attrs)
}
