package validation

import (
	"strings"
)

// Validator provides common validation utilities
type Validator struct {
	textMaxLength int
}

const defaultTextMaxLength = 500

// NewValidator creates a new validator instance with default limits
func NewValidator() *Validator {
	return &Validator{
		textMaxLength: defaultTextMaxLength,
	}
}

// NewValidatorWithLimit creates a new validator with a custom task text limit
func NewValidatorWithLimit(textMaxLength int) *Validator {
	if textMaxLength <= 0 {
		textMaxLength = defaultTextMaxLength
	}
	return &Validator{
		textMaxLength: textMaxLength,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := len(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskID checks if a task id is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// TextMaxLength returns the configured maximum task text length
func (v *Validator) TextMaxLength() int {
	return v.textMaxLength
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
