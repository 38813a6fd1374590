package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreset(t *testing.T) {
	for _, p := range Presets {
		got, err := ParsePreset(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePreset("Baroque")
	assert.Error(t, err)

	_, err = ParsePreset("futuristic")
	assert.Error(t, err, "preset names are case sensitive")
}

func TestNewSessionStateDefaults(t *testing.T) {
	st := NewSessionState()
	assert.Equal(t, PresetFuturistic, st.Preset)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Image)
	assert.Nil(t, st.Result)
}

func TestGenerateRequestValidate(t *testing.T) {
	img := &ImageSelection{Filename: "a.png", ContentType: "image/png", Data: []byte{1}}

	tests := []struct {
		name    string
		req     GenerateRequest
		missing []string
	}{
		{"complete", GenerateRequest{Prompt: "tower", Preset: PresetSurrealism, Image: img}, nil},
		{"no prompt", GenerateRequest{Preset: PresetSurrealism, Image: img}, []string{"prompt"}},
		{"no preset", GenerateRequest{Prompt: "tower", Image: img}, []string{"preset"}},
		{"no image", GenerateRequest{Prompt: "tower", Preset: PresetFuturistic}, []string{"image"}},
		{"nothing", GenerateRequest{}, []string{"prompt", "preset", "image"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.missing, verr.Missing)
		})
	}
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&RequestError{Step: StepUpload, Err: cause})

	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "upload failed")

	err = &RequestError{Step: StepGenerate, StatusCode: 500, Body: "boom"}
	assert.Equal(t, "generate failed with status code: 500, body: boom", err.Error())
}
