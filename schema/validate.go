package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError reports one schema violation at a JSON path.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// FieldErrors collects every violation found in one validation pass.
type FieldErrors []*FieldError

func (e FieldErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range e {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate checks raw JSON data against the schema. Returns nil if valid,
// FieldErrors otherwise.
func (s *Schema) Validate(data json.RawMessage) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &FieldError{Message: fmt.Sprintf("invalid JSON: %s", err)}
	}

	var errs FieldErrors
	s.check("", value, &errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *Schema) check(path string, value any, errs *FieldErrors) {
	if value == nil {
		// null passes per-field checks; absence of required fields is
		// enforced on the enclosing object.
		return
	}

	switch s.Type {
	case TypeObject:
		s.checkObject(path, value, errs)
	case TypeArray:
		s.checkArray(path, value, errs)
	case TypeString:
		s.checkString(path, value, errs)
	case TypeInteger, TypeNumber:
		s.checkNumber(path, value, errs)
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			fail(errs, path, "expected boolean, got %T", value)
		}
	}
}

func (s *Schema) checkObject(path string, value any, errs *FieldErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		fail(errs, path, "expected object, got %T", value)
		return
	}

	for _, name := range s.Required {
		if _, exists := obj[name]; !exists {
			fail(errs, childPath(path, name), "required field is missing")
		}
	}

	for name, prop := range s.Properties {
		if v, exists := obj[name]; exists {
			prop.check(childPath(path, name), v, errs)
		}
	}
}

func (s *Schema) checkArray(path string, value any, errs *FieldErrors) {
	items, ok := value.([]any)
	if !ok {
		fail(errs, path, "expected array, got %T", value)
		return
	}

	if s.MinItems != nil && len(items) < *s.MinItems {
		fail(errs, path, "array has %d items, needs at least %d", len(items), *s.MinItems)
	}
	if s.Items == nil {
		return
	}
	for i, item := range items {
		s.Items.check(fmt.Sprintf("%s[%d]", path, i), item, errs)
	}
}

func (s *Schema) checkString(path string, value any, errs *FieldErrors) {
	str, ok := value.(string)
	if !ok {
		fail(errs, path, "expected string, got %T", value)
		return
	}

	if len(s.Enum) == 0 {
		return
	}
	for _, e := range s.Enum {
		if e == str {
			return
		}
	}
	fail(errs, path, "value must be one of: %v", s.Enum)
}

func (s *Schema) checkNumber(path string, value any, errs *FieldErrors) {
	num, ok := value.(float64)
	if !ok {
		fail(errs, path, "expected %s, got %T", s.Type, value)
		return
	}
	if s.Type == TypeInteger && num != float64(int64(num)) {
		fail(errs, path, "expected integer, got decimal number")
		return
	}

	if s.Minimum != nil && num < *s.Minimum {
		fail(errs, path, "value %v is less than minimum %v", num, *s.Minimum)
	}
	if s.Maximum != nil && num > *s.Maximum {
		fail(errs, path, "value %v is greater than maximum %v", num, *s.Maximum)
	}
}

func fail(errs *FieldErrors, path, format string, args ...any) {
	*errs = append(*errs, &FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func childPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
