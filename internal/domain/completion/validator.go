package completion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
)

// ValidationError reports a rejected submission. Violations are ordered
// human-readable messages; a submission fails when at least one exists.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "submission rejected: " + strings.Join(e.Violations, "; ")
}

// ValidateSubmission applies the task type's acceptance rules to a
// submission payload. All violations are collected, not short-circuited,
// so the volunteer sees every problem at once.
func ValidateSubmission(taskType task.TaskType, cfg task.TaskConfiguration, payload CompletionPayload) []string {
	var violations []string

	switch taskType {
	case task.TaskTypeCheckbox:
		if !payload.Completed {
			violations = append(violations, "the completed flag must be set")
		}

	case task.TaskTypePhoto:
		min, max := 1, 3
		if cfg.Photo != nil {
			min, max = cfg.Photo.MinPhotos, cfg.Photo.MaxPhotos
		}
		count := len(payload.Photos)
		if count < min {
			violations = append(violations, fmt.Sprintf("at least %d photo(s) required, got %d", min, count))
		}
		if count > max {
			violations = append(violations, fmt.Sprintf("at most %d photo(s) allowed, got %d", max, count))
		}

	case task.TaskTypeText:
		min, max := 10, 1000
		if cfg.Text != nil {
			min, max = cfg.Text.MinLength, cfg.Text.MaxLength
		}
		length := utf8.RuneCountInString(payload.Text)
		if length < min {
			violations = append(violations, fmt.Sprintf("text must be at least %d characters, got %d", min, length))
		}
		if length > max {
			violations = append(violations, fmt.Sprintf("text must be at most %d characters, got %d", max, length))
		}

	case task.TaskTypeCustom:
		if cfg.Custom != nil {
			for _, field := range cfg.Custom.RequiredFields {
				value, present := payload.Fields[field]
				if !present || strings.TrimSpace(value) == "" {
					violations = append(violations, fmt.Sprintf("required field %q is missing or empty", field))
				}
			}
		}
	}

	return violations
}
