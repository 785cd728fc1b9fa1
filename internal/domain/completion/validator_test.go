package completion

import (
	"strings"
	"testing"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/stretchr/testify/assert"
)

func TestValidateSubmissionCheckbox(t *testing.T) {
	cfg := task.DefaultConfiguration(task.TaskTypeCheckbox)

	violations := ValidateSubmission(task.TaskTypeCheckbox, cfg, CompletionPayload{Completed: true})
	assert.Empty(t, violations)

	violations = ValidateSubmission(task.TaskTypeCheckbox, cfg, CompletionPayload{Completed: false})
	assert.Len(t, violations, 1)
}

func TestValidateSubmissionPhoto(t *testing.T) {
	cfg := task.TaskConfiguration{Photo: &task.PhotoConfig{MinPhotos: 2, MaxPhotos: 3}}

	tests := []struct {
		name       string
		photos     []string
		violations int
	}{
		{"too few", []string{"a.jpg"}, 1},
		{"lower bound", []string{"a.jpg", "b.jpg"}, 0},
		{"upper bound", []string{"a.jpg", "b.jpg", "c.jpg"}, 0},
		{"too many", []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, 1},
		{"empty", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateSubmission(task.TaskTypePhoto, cfg, CompletionPayload{Photos: tt.photos})
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestValidateSubmissionText(t *testing.T) {
	cfg := task.TaskConfiguration{Text: &task.TextConfig{MinLength: 5, MaxLength: 20}}

	tests := []struct {
		name       string
		text       string
		violations int
	}{
		{"too short", "abc", 1},
		{"lower bound", "abcde", 0},
		{"within range", "a reasonable answer", 0},
		{"too long", strings.Repeat("x", 21), 1},
		{"multibyte runes counted once", "céad míle", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateSubmission(task.TaskTypeText, cfg, CompletionPayload{Text: tt.text})
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestValidateSubmissionCustom(t *testing.T) {
	cfg := task.TaskConfiguration{Custom: &task.CustomConfig{
		RequiredFields: []string{"garda_number", "expiry_date"},
	}}

	tests := []struct {
		name       string
		fields     map[string]string
		violations int
	}{
		{
			name:       "all present",
			fields:     map[string]string{"garda_number": "GV-1234", "expiry_date": "2027-01-01"},
			violations: 0,
		},
		{
			name:       "one missing",
			fields:     map[string]string{"garda_number": "GV-1234"},
			violations: 1,
		},
		{
			name:       "blank counts as missing",
			fields:     map[string]string{"garda_number": "   ", "expiry_date": "2027-01-01"},
			violations: 1,
		},
		{
			name:       "all missing",
			fields:     nil,
			violations: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateSubmission(task.TaskTypeCustom, cfg, CompletionPayload{Fields: tt.fields})
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestValidateSubmissionCollectsAllViolations(t *testing.T) {
	cfg := task.TaskConfiguration{Custom: &task.CustomConfig{
		RequiredFields: []string{"a", "b", "c"},
	}}
	violations := ValidateSubmission(task.TaskTypeCustom, cfg, CompletionPayload{})
	assert.Len(t, violations, 3, "violations must not short-circuit")
}
