// Package schema provides JSON Schema generation from Go types and runtime
// validation of tool arguments against the generated schemas.
package schema

import (
	"reflect"
	"strconv"
	"strings"
)

// Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema represents a JSON Schema.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Description string             `json:"description,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`
}

// For creates a JSON Schema describing the type of v.
func For(v any) *Schema {
	return FromType(reflect.TypeOf(v))
}

// FromType creates a JSON Schema describing t. Struct fields are mapped via
// their json tags; jsonschema tags contribute constraints.
func FromType(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return structSchema(t)
	case reflect.String:
		return &Schema{Type: TypeString}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: TypeInteger}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: TypeNumber}
	case reflect.Bool:
		return &Schema{Type: TypeBoolean}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: TypeArray, Items: FromType(t.Elem())}
	case reflect.Map:
		return &Schema{Type: TypeObject}
	default:
		return &Schema{}
	}
}

func structSchema(t reflect.Type) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := jsonName(field)
		if skip {
			continue
		}

		prop := FromType(field.Type)
		if applyTag(field.Tag.Get("jsonschema"), prop) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = prop
	}

	return s
}

// jsonName resolves the JSON field name from the json tag, falling back to
// the Go field name. The second return is true for fields tagged "-".
func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name, false
		}
	}
	return field.Name, false
}

// applyTag parses a jsonschema struct tag into the field schema and reports
// whether the field is required.
func applyTag(tag string, s *Schema) bool {
	required := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "required":
			required = true
		case "description":
			s.Description = value
		case "minimum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
			}
		case "maximum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Maximum = &f
			}
		case "minItems":
			if n, err := strconv.Atoi(value); err == nil {
				s.MinItems = &n
			}
		case "enum":
			for _, e := range strings.Split(value, "|") {
				s.Enum = append(s.Enum, e)
			}
		}
	}
	return required
}
