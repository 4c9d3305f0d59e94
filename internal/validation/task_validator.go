package validation

import (
	"taskdeck/internal/domain"
)

// TaskValidator provides validation for task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithLimit creates a task validator with a custom text limit
func NewTaskValidatorWithLimit(textMaxLength int) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithLimit(textMaxLength),
	}
}

// ValidateText validates task text for creation or import
func (tv *TaskValidator) ValidateText(text string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(text)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("text")
		return validationError
	}

	if !tv.validator.IsValidStringLength(trimmed, 1, tv.validator.TextMaxLength()) {
		validationError.AddInvalidLengthError("text", trimmed, 1, tv.validator.TextMaxLength())
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidateTaskID validates a task id
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateTask validates a full task record, as received from an import payload
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidTaskID(task.ID) {
		validationError.AddInvalidValueError("id", task.ID, "must be a positive integer")
	}

	if textErr := tv.ValidateText(task.Text); textErr != nil {
		if textValidationErr, ok := textErr.(*ValidationError); ok {
			validationError.Errors = append(validationError.Errors, textValidationErr.Errors...)
		}
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidText returns the cleaned task text if valid
func (tv *TaskValidator) GetValidText(text string) (string, error) {
	if err := tv.ValidateText(text); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(text), nil
}
