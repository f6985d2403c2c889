package templates

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

// Validate checks a single answer update against its field rules
// Returns a list of validation errors, or empty slice if valid
func Validate(field string, value interface{}) []ValidationError {
	spec, exists := GetFields()[field]
	if !exists {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("unknown field '%s' - must be one of: %v", field, GetFieldList()),
		}}
	}

	if !isValidType(value, spec.Type) {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("field '%s' must be of type %s, got %T", field, spec.Type, value),
		}}
	}

	var errors []ValidationError
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if spec.MaxLength > 0 && utf8.RuneCountInString(v) > spec.MaxLength {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("field '%s' must be at most %d characters", field, spec.MaxLength),
			})
		}
		// Empty clears the answer, so it is always allowed
		if v != "" && len(spec.Enum) > 0 && !slices.Contains(spec.Enum, v) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("'%s' is not a valid %s - must be one of: %v", v, field, spec.Enum),
			})
		}
		if field == "email" && v != "" && !strings.Contains(v, "@") {
			errors = append(errors, ValidationError{Field: field, Message: "email must contain @"})
		}
	case []interface{}:
		for _, el := range v {
			tag, ok := el.(string)
			if !ok {
				errors = append(errors, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("field '%s' must contain only strings, got %T", field, el),
				})
				continue
			}
			errors = append(errors, checkTag(field, spec, tag)...)
		}
	case []string:
		for _, tag := range v {
			errors = append(errors, checkTag(field, spec, tag)...)
		}
	}

	return errors
}

// ValidateAll checks every entry of a multi-field update. Results are
// ordered by field name.
func ValidateAll(values map[string]interface{}) []ValidationError {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errors []ValidationError
	for _, name := range names {
		errors = append(errors, Validate(name, values[name])...)
	}
	return errors
}

func checkTag(field string, spec FieldSpec, tag string) []ValidationError {
	if spec.TagSet == "" || wizard.KnownTag(spec.TagSet, tag) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Message: fmt.Sprintf("unknown %s option '%s'", field, tag),
	}}
}

// isValidType checks if a value matches the expected type
func isValidType(value interface{}, expectedType string) bool {
	if value == nil {
		return expectedType == "array" // clears the set
	}

	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		switch value.(type) {
		case []interface{}, []string:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// GetFieldList returns the sorted names of all answer fields
func GetFieldList() []string {
	fields := GetFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldsForStep returns the sorted names of the fields collected on step
func FieldsForStep(step wizard.Step) []string {
	var names []string
	for name, spec := range GetFields() {
		if spec.Step == step {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
