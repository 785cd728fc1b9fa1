package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name     string
		taskType TaskType
		cfg      TaskConfiguration
		wantErr  bool
	}{
		{
			name:     "checkbox accepts empty configuration",
			taskType: TaskTypeCheckbox,
			cfg:      TaskConfiguration{},
			wantErr:  false,
		},
		{
			name:     "photo with sane bounds",
			taskType: TaskTypePhoto,
			cfg:      TaskConfiguration{Photo: &PhotoConfig{MinPhotos: 1, MaxPhotos: 5}},
			wantErr:  false,
		},
		{
			name:     "photo missing config",
			taskType: TaskTypePhoto,
			cfg:      TaskConfiguration{},
			wantErr:  true,
		},
		{
			name:     "photo min above max",
			taskType: TaskTypePhoto,
			cfg:      TaskConfiguration{Photo: &PhotoConfig{MinPhotos: 4, MaxPhotos: 2}},
			wantErr:  true,
		},
		{
			name:     "photo negative min",
			taskType: TaskTypePhoto,
			cfg:      TaskConfiguration{Photo: &PhotoConfig{MinPhotos: -1, MaxPhotos: 2}},
			wantErr:  true,
		},
		{
			name:     "text with sane bounds",
			taskType: TaskTypeText,
			cfg:      TaskConfiguration{Text: &TextConfig{MinLength: 10, MaxLength: 500}},
			wantErr:  false,
		},
		{
			name:     "text min above max",
			taskType: TaskTypeText,
			cfg:      TaskConfiguration{Text: &TextConfig{MinLength: 100, MaxLength: 50}},
			wantErr:  true,
		},
		{
			name:     "custom with fields",
			taskType: TaskTypeCustom,
			cfg:      TaskConfiguration{Custom: &CustomConfig{RequiredFields: []string{"garda_number"}}},
			wantErr:  false,
		},
		{
			name:     "custom with blank field name",
			taskType: TaskTypeCustom,
			cfg:      TaskConfiguration{Custom: &CustomConfig{RequiredFields: []string{""}}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.taskType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeConfigurationDefaults(t *testing.T) {
	cfg, err := DecodeConfiguration(nil, TaskTypePhoto)
	require.NoError(t, err)
	require.NotNil(t, cfg.Photo)
	assert.Equal(t, 1, cfg.Photo.MinPhotos)
	assert.Equal(t, 3, cfg.Photo.MaxPhotos)

	cfg, err = DecodeConfiguration(datatypes.JSON(`{}`), TaskTypeText)
	require.NoError(t, err)
	require.NotNil(t, cfg.Text)
	assert.Equal(t, 10, cfg.Text.MinLength)
	assert.Equal(t, 1000, cfg.Text.MaxLength)
}

func TestDecodeConfigurationRoundTrip(t *testing.T) {
	original := TaskConfiguration{Photo: &PhotoConfig{MinPhotos: 2, MaxPhotos: 4}}
	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := DecodeConfiguration(encoded, TaskTypePhoto)
	require.NoError(t, err)
	assert.Equal(t, original.Photo, decoded.Photo)
}

func TestDecodeConfigurationMalformed(t *testing.T) {
	_, err := DecodeConfiguration(datatypes.JSON(`{not json`), TaskTypeText)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
