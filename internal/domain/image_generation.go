package domain

import (
	"context"
)

// GenerateRequest represents the parameters sent to the generation endpoint
type GenerateRequest struct {
	Prompt string
	Preset Preset
	Image  *ImageSelection
}

// UploadResult represents the response from the storage endpoint
type UploadResult struct {
	FilePath string `json:"file_path"`
	Message  string `json:"message,omitempty"`
}

// GeneratedImage is the raw body returned by the generation endpoint
type GeneratedImage struct {
	ContentType string
	Data        []byte
}

// RenderAPI defines the remote operations the generate action depends on
type RenderAPI interface {
	// Upload stores the reference image and returns the stored path
	Upload(ctx context.Context, img *ImageSelection) (*UploadResult, error)

	// Generate renders a new image from the prompt, preset and reference image
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedImage, error)
}
