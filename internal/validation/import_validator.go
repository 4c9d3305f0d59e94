package validation

import (
	"encoding/json"

	"taskdeck/internal/domain"
)

// ImportValidator validates import payloads before they replace the task list.
type ImportValidator struct {
	taskValidator *TaskValidator
}

// NewImportValidator creates a new import validator
func NewImportValidator() *ImportValidator {
	return &ImportValidator{
		taskValidator: NewTaskValidator(),
	}
}

// NewImportValidatorWithLimit creates an import validator with a custom task
// text limit
func NewImportValidatorWithLimit(textMaxLength int) *ImportValidator {
	return &ImportValidator{
		taskValidator: NewTaskValidatorWithLimit(textMaxLength),
	}
}

// ParseTaskSequence parses raw JSON and verifies it is a sequence of
// task-shaped records. Anything other than a JSON array is rejected.
func (iv *ImportValidator) ParseTaskSequence(data []byte) (domain.TaskList, error) {
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("payload", string(data), "JSON")
		return nil, validationError
	}

	if _, ok := decoded.([]interface{}); !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("payload", decoded, "a sequence of tasks")
		return nil, validationError
	}

	var tasks domain.TaskList
	if err := json.Unmarshal(data, &tasks); err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("payload", string(data), "a sequence of tasks")
		return nil, validationError
	}

	return tasks, iv.ValidateTaskSequence(tasks)
}

// ValidateTaskSequence verifies every record in an already-decoded sequence.
func (iv *ImportValidator) ValidateTaskSequence(tasks domain.TaskList) error {
	validationError := NewValidationError()

	seen := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if err := iv.taskValidator.ValidateTask(task); err != nil {
			if taskErr, ok := err.(*ValidationError); ok {
				validationError.Errors = append(validationError.Errors, taskErr.Errors...)
			}
			continue
		}
		if seen[task.ID] {
			validationError.AddInvalidValueError("id", task.ID, "duplicate task id")
		}
		seen[task.ID] = true
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}
