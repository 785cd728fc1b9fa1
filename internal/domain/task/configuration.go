package task

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
)

var ErrInvalidConfiguration = errors.New("invalid task configuration")

// PhotoConfig bounds the number of photos a submission must carry
type PhotoConfig struct {
	MinPhotos int `json:"min_photos"`
	MaxPhotos int `json:"max_photos"`
}

// TextConfig bounds the length of a text submission
type TextConfig struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

// CustomConfig lists the field names a custom submission must fill
type CustomConfig struct {
	RequiredFields []string `json:"required_fields"`
}

// TaskConfiguration is the typed configuration stored on a task. Only the
// variant matching the task's type is populated, so validation can switch
// on the type instead of probing a string-keyed map.
type TaskConfiguration struct {
	Photo  *PhotoConfig  `json:"photo,omitempty"`
	Text   *TextConfig   `json:"text,omitempty"`
	Custom *CustomConfig `json:"custom,omitempty"`
}

// DefaultConfiguration returns type-appropriate defaults used when a task
// is created without an explicit configuration.
func DefaultConfiguration(taskType TaskType) TaskConfiguration {
	switch taskType {
	case TaskTypePhoto:
		return TaskConfiguration{Photo: &PhotoConfig{MinPhotos: 1, MaxPhotos: 3}}
	case TaskTypeText:
		return TaskConfiguration{Text: &TextConfig{MinLength: 10, MaxLength: 1000}}
	case TaskTypeCustom:
		return TaskConfiguration{Custom: &CustomConfig{RequiredFields: []string{}}}
	default:
		// Checkbox tasks carry no knobs
		return TaskConfiguration{}
	}
}

// Validate checks the configuration against the task type
func (c TaskConfiguration) Validate(taskType TaskType) error {
	switch taskType {
	case TaskTypePhoto:
		if c.Photo == nil {
			return fmt.Errorf("%w: photo configuration missing", ErrInvalidConfiguration)
		}
		if c.Photo.MinPhotos < 0 {
			return fmt.Errorf("%w: min_photos must not be negative", ErrInvalidConfiguration)
		}
		if c.Photo.MinPhotos > c.Photo.MaxPhotos {
			return fmt.Errorf("%w: min_photos (%d) greater than max_photos (%d)",
				ErrInvalidConfiguration, c.Photo.MinPhotos, c.Photo.MaxPhotos)
		}
	case TaskTypeText:
		if c.Text == nil {
			return fmt.Errorf("%w: text configuration missing", ErrInvalidConfiguration)
		}
		if c.Text.MinLength < 0 {
			return fmt.Errorf("%w: min_length must not be negative", ErrInvalidConfiguration)
		}
		if c.Text.MinLength > c.Text.MaxLength {
			return fmt.Errorf("%w: min_length (%d) greater than max_length (%d)",
				ErrInvalidConfiguration, c.Text.MinLength, c.Text.MaxLength)
		}
	case TaskTypeCustom:
		if c.Custom == nil {
			return fmt.Errorf("%w: custom configuration missing", ErrInvalidConfiguration)
		}
		for _, field := range c.Custom.RequiredFields {
			if field == "" {
				return fmt.Errorf("%w: required field name must not be empty", ErrInvalidConfiguration)
			}
		}
	}
	return nil
}

// Encode serializes the configuration for the JSONB column
func (c TaskConfiguration) Encode() (datatypes.JSON, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// DecodeConfiguration parses the stored JSONB column back into the typed
// configuration, falling back to the type's defaults for an empty column.
func DecodeConfiguration(raw datatypes.JSON, taskType TaskType) (TaskConfiguration, error) {
	if len(raw) == 0 || string(raw) == "{}" || string(raw) == "null" {
		return DefaultConfiguration(taskType), nil
	}
	var cfg TaskConfiguration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return TaskConfiguration{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	// A stored configuration missing its own variant still gets defaults
	switch taskType {
	case TaskTypePhoto:
		if cfg.Photo == nil {
			cfg.Photo = DefaultConfiguration(taskType).Photo
		}
	case TaskTypeText:
		if cfg.Text == nil {
			cfg.Text = DefaultConfiguration(taskType).Text
		}
	case TaskTypeCustom:
		if cfg.Custom == nil {
			cfg.Custom = DefaultConfiguration(taskType).Custom
		}
	}
	return cfg, nil
}
