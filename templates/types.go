package templates

import "github.com/EasterCompany/package-builder-service/internal/wizard"

// FieldSpec defines the rules for a single wizard answer
type FieldSpec struct {
	Type        string      `json:"type"` // "string", "boolean", "array"
	Step        wizard.Step `json:"step"`
	Enum        []string    `json:"enum,omitempty"`
	TagSet      string      `json:"tagSet,omitempty"` // catalog set array elements are checked against
	MaxLength   int         `json:"maxLength,omitempty"`
	Description string      `json:"description,omitempty"`
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
